package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/handler"
	apimiddleware "github.com/mitraisp/mitrabooks/internal/adapter/http/middleware"
	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_APIRequiresTenant(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses/biz-1/accounts/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected missing tenant to return 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/businesses/biz-1/accounts/", nil)
	req.Header.Set(apimiddleware.TenantIDHeader, "tenant-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected tenant request to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"code":"1010","name":"Kas","type":"asset"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses/biz-1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.TenantIDHeader, "tenant-1")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/ledger/consistency",
		"POST /api/v1/businesses/{businessID}/accounts/",
		"GET /api/v1/businesses/{businessID}/accounts/{id}/chain",
		"DELETE /api/v1/businesses/{businessID}/accounts/{id}",
		"POST /api/v1/businesses/{businessID}/accounting-periods/{id}/close",
		"POST /api/v1/businesses/{businessID}/accounting-periods/{id}/reopen",
		"POST /api/v1/businesses/{businessID}/accounting-periods/{id}/lock",
		"PATCH /api/v1/businesses/{businessID}/rules/{id}",
		"POST /api/v1/businesses/{businessID}/events",
		"POST /api/v1/businesses/{businessID}/manual-journals",
		"POST /api/v1/businesses/{businessID}/journal-entries/{id}/reverse",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AccountHandler: handler.NewAccountHandler(&stubAccountService{}),
		PeriodHandler:  handler.NewPeriodHandler(&stubPeriodService{}),
		RuleHandler:    handler.NewRuleHandler(&stubRuleService{}),
		EventHandler:   handler.NewEventHandler(&stubPostingService{}),
		JournalHandler: handler.NewJournalHandler(&stubJournalService{}, &stubPostingService{}),
		LedgerHandler:  handler.NewLedgerHandler(&stubLedgerService{}),
		HealthHandler:  &handler.HealthHandler{},
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (s *stubAccountService) CreateAccount(context.Context, usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc-1"}, nil
}

func (s *stubAccountService) GetAccount(context.Context, string, string) (*domain.Account, error) {
	return &domain.Account{ID: "acc-1"}, nil
}

func (s *stubAccountService) ListAccounts(context.Context, string) ([]*domain.Account, error) {
	return nil, nil
}

func (s *stubAccountService) ParentChain(context.Context, string, string) ([]*domain.Account, error) {
	return nil, nil
}

func (s *stubAccountService) RemoveAccount(context.Context, string, string) error {
	return nil
}

type stubPeriodService struct{}

func (s *stubPeriodService) CreatePeriod(context.Context, usecase.CreatePeriodInput) (*domain.Period, error) {
	return &domain.Period{ID: "per-1"}, nil
}

func (s *stubPeriodService) GetPeriod(context.Context, string, string) (*domain.Period, error) {
	return &domain.Period{ID: "per-1"}, nil
}

func (s *stubPeriodService) ListPeriods(context.Context, string) ([]*domain.Period, error) {
	return nil, nil
}

func (s *stubPeriodService) ClosePeriod(context.Context, string, string, string) (*domain.Period, error) {
	return &domain.Period{ID: "per-1", Status: domain.PeriodStatusClosed}, nil
}

func (s *stubPeriodService) ReopenPeriod(context.Context, string, string, string) (*domain.Period, error) {
	return &domain.Period{ID: "per-1", Status: domain.PeriodStatusOpen}, nil
}

func (s *stubPeriodService) LockPeriod(context.Context, string, string, string) (*domain.Period, error) {
	return &domain.Period{ID: "per-1", Status: domain.PeriodStatusLocked}, nil
}

type stubRuleService struct{}

func (s *stubRuleService) CreateRule(context.Context, usecase.CreateRuleInput) (*domain.AccountingRule, error) {
	return &domain.AccountingRule{ID: "rule-1"}, nil
}

func (s *stubRuleService) SetRuleActive(context.Context, usecase.SetRuleActiveInput) (*domain.AccountingRule, error) {
	return &domain.AccountingRule{ID: "rule-1"}, nil
}

func (s *stubRuleService) DeleteRule(context.Context, string, string, string) error {
	return nil
}

func (s *stubRuleService) ListRules(context.Context, string, string) ([]*domain.AccountingRule, error) {
	return nil, nil
}

type stubPostingService struct{}

func (s *stubPostingService) PostEvent(context.Context, usecase.PostEventInput) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: "je-1"}, nil
}

func (s *stubPostingService) ReverseEntry(context.Context, usecase.ReverseEntryInput) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: "je-2"}, nil
}

type stubJournalService struct{}

func (s *stubJournalService) GetEntry(context.Context, string, string) (*domain.JournalEntry, error) {
	return &domain.JournalEntry{ID: "je-1"}, nil
}

func (s *stubJournalService) ListEntries(context.Context, usecase.ListEntriesInput) ([]*domain.JournalEntry, error) {
	return nil, nil
}

type stubLedgerService struct{}

func (s *stubLedgerService) CheckConsistency(context.Context, string) (bool, error) {
	return true, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
