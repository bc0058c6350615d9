package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/adapter/http/middleware"
	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// RuleService defines the behavior needed by RuleHandler.
type RuleService interface {
	CreateRule(ctx context.Context, input usecase.CreateRuleInput) (*domain.AccountingRule, error)
	SetRuleActive(ctx context.Context, input usecase.SetRuleActiveInput) (*domain.AccountingRule, error)
	DeleteRule(ctx context.Context, tenantID, businessID, ruleID string) error
	ListRules(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error)
}

// RuleHandler handles rule administration HTTP requests.
type RuleHandler struct {
	ruleUC RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleUC RuleService) *RuleHandler {
	return &RuleHandler{ruleUC: ruleUC}
}

// Create creates a new accounting rule.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	rule, err := h.ruleUC.CreateRule(r.Context(), req.ToUseCaseInput(tenantID, businessID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create rule", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// List lists the business's rules.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	rules, err := h.ruleUC.ListRules(r.Context(), tenantID, businessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RulesFromDomain(rules))
}

// SetActive toggles a rule's is_active flag.
func (h *RuleHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRuleActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rule, err := h.ruleUC.SetRuleActive(r.Context(), usecase.SetRuleActiveInput{
		TenantID:   middleware.TenantFromContext(r.Context()),
		BusinessID: chi.URLParam(r, "businessID"),
		RuleID:     chi.URLParam(r, "id"),
		Active:     req.Active,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update rule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RuleFromDomain(rule))
}

// Delete removes a rule.
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	if err := h.ruleUC.DeleteRule(r.Context(), tenantID, businessID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete rule", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
