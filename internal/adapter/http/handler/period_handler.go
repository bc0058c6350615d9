package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/adapter/http/middleware"
	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/infrastructure/metrics"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	CreatePeriod(ctx context.Context, input usecase.CreatePeriodInput) (*domain.Period, error)
	GetPeriod(ctx context.Context, businessID, id string) (*domain.Period, error)
	ListPeriods(ctx context.Context, businessID string) ([]*domain.Period, error)
	ClosePeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error)
	ReopenPeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error)
	LockPeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error)
}

// PeriodHandler handles accounting-period HTTP requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Create creates a new accounting period.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	input, err := req.ToUseCaseInput(tenantID, businessID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period dates", err.Error())
		return
	}

	period, err := h.periodUC.CreatePeriod(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create period", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodFromDomain(period))
}

// Get retrieves a period by ID.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	period, err := h.periodUC.GetPeriod(r.Context(), businessID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get period", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// List lists the business's periods.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	periods, err := h.periodUC.ListPeriods(r.Context(), businessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list periods", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodsFromDomain(periods))
}

// Close transitions a period to closed.
func (h *PeriodHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.periodUC.ClosePeriod)
}

// Reopen transitions a closed period back to open.
func (h *PeriodHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.periodUC.ReopenPeriod)
}

// Lock transitions a period to its terminal locked state.
func (h *PeriodHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.periodUC.LockPeriod)
}

func (h *PeriodHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error)) {
	var req dto.PeriodTransitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.ByUser == "" {
		writeError(w, http.StatusBadRequest, "by_user is required", "")
		return
	}

	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	period, err := apply(r.Context(), businessID, id, req.ByUser)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transition period", err.Error())
		return
	}

	metrics.RecordPeriodTransition(period.Status)
	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}
