package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/adapter/http/middleware"
	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

type postingServiceStub struct {
	postFn func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error)
}

func (s *postingServiceStub) PostEvent(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
	return s.postFn(ctx, input)
}

func sampleEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:          "je-1",
		TenantID:    "tenant-1",
		BusinessID:  "biz-1",
		Source:      domain.SourceRef{Type: domain.SourceVoucherSale, ID: "vs-77"},
		JournalDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []domain.JournalLine{
			{ID: "jl-1", AccountID: "acc-kas", Amount: decimal.NewFromInt(150000), Position: domain.DirectionDebit},
			{ID: "jl-2", AccountID: "acc-penjualan", Amount: decimal.NewFromInt(150000), Position: domain.DirectionCredit},
		},
	}
}

func TestEventHandler_Post_Success(t *testing.T) {
	var captured usecase.PostEventInput
	handler := NewEventHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
			captured = input
			return sampleEntry(), nil
		},
	})

	body, _ := json.Marshal(dto.PostEventRequest{
		EventCode:   domain.EventVoucherSold,
		JournalDate: "2026-03-15",
		SourceType:  "voucher_sale",
		SourceID:    "vs-77",
		Payload: map[string]any{
			"total_amount":   150000,
			"payment_method": "cash",
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set(middleware.TenantIDHeader, "tenant-1")
	req = setChiURLParam(req, "businessID", "biz-1")
	rec := httptest.NewRecorder()

	withTenant(handler.Post).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.TenantID != "tenant-1" || captured.BusinessID != "biz-1" {
		t.Fatalf("expected tenant and business from request, got %+v", captured)
	}
	if captured.EventCode != domain.EventVoucherSold {
		t.Fatalf("expected event code to pass through, got %s", captured.EventCode)
	}
	if !captured.JournalDate.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed journal date, got %v", captured.JournalDate)
	}

	// Amounts must survive decoding as json.Number, not float64.
	if _, ok := captured.Payload["total_amount"].(json.Number); !ok {
		t.Fatalf("expected json.Number amount, got %T", captured.Payload["total_amount"])
	}

	var resp dto.JournalEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "je-1" || len(resp.Lines) != 2 {
		t.Fatalf("expected posted entry in response, got %+v", resp)
	}
}

func TestEventHandler_Post_InvalidSourceType(t *testing.T) {
	handler := NewEventHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
			t.Fatal("PostEvent should not be called for an invalid source type")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.PostEventRequest{
		EventCode:   domain.EventVoucherSold,
		JournalDate: "2026-03-15",
		SourceType:  "mystery",
		SourceID:    "vs-77",
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventHandler_Post_InvalidDate(t *testing.T) {
	handler := NewEventHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
			t.Fatal("PostEvent should not be called for an invalid date")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.PostEventRequest{
		EventCode:   domain.EventVoucherSold,
		JournalDate: "15/03/2026",
		SourceType:  "voucher_sale",
	})

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventHandler_Post_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"period closed", domain.ErrPeriodClosed, http.StatusConflict},
		{"no period", domain.ErrNoPeriodDefined, http.StatusUnprocessableEntity},
		{"no rules", domain.ErrNoRulesConfigured, http.StatusUnprocessableEntity},
		{"missing amount", &domain.MissingAmountSourceError{Source: "total_amount"}, http.StatusUnprocessableEntity},
		{"collector required", domain.ErrCollectorRequired, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(&postingServiceStub{
				postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.PostEventRequest{
				EventCode:   domain.EventVoucherSold,
				JournalDate: "2026-03-15",
				SourceType:  "voucher_sale",
				SourceID:    "vs-77",
			})

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Post(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestEventHandler_PostManual_Success(t *testing.T) {
	var captured usecase.PostEventInput
	handler := NewEventHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
			captured = input
			entry := sampleEntry()
			entry.Source = domain.SourceRef{Type: domain.SourceManual, ID: "doc-12"}
			return entry, nil
		},
	})

	body, _ := json.Marshal(dto.ManualJournalRequest{
		EventCode:   domain.EventEquityInjected,
		JournalDate: "2026-03-15",
		ReferenceID: "doc-12",
		Payload:     map[string]any{"amount": 5000000},
	})

	req := httptest.NewRequest(http.MethodPost, "/manual-journals", bytes.NewReader(body))
	req.Header.Set(middleware.TenantIDHeader, "tenant-1")
	req = setChiURLParam(req, "businessID", "biz-1")
	rec := httptest.NewRecorder()

	withTenant(handler.PostManual).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Source.Type != domain.SourceManual || captured.Source.ID != "doc-12" {
		t.Fatalf("expected manual source, got %+v", captured.Source)
	}
}

func TestEventHandler_PostManual_RejectsNonCatalogCode(t *testing.T) {
	handler := NewEventHandler(&postingServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error) {
			t.Fatal("PostEvent should not be called for a non-catalog code")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.ManualJournalRequest{
		EventCode:   domain.EventVoucherSold,
		JournalDate: "2026-03-15",
		ReferenceID: "doc-12",
	})

	req := httptest.NewRequest(http.MethodPost, "/manual-journals", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.PostManual(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
