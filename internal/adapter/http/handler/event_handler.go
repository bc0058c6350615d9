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

// PostingService defines the behavior needed by EventHandler.
type PostingService interface {
	PostEvent(ctx context.Context, input usecase.PostEventInput) (*domain.JournalEntry, error)
}

// EventHandler turns business events into journal entries. It is the write
// surface the invoicing, voucher, and collection modules call.
type EventHandler struct {
	postingUC PostingService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(postingUC PostingService) *EventHandler {
	return &EventHandler{postingUC: postingUC}
}

// Post posts a business event through the rule pipeline.
func (h *EventHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	input, err := req.ToUseCaseInput(tenantID, businessID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event", err.Error())
		return
	}

	h.post(w, r, input)
}

// PostManual posts one of the manually initiated events, such as an equity
// injection or an owner withdrawal. Only catalog event codes are accepted.
func (h *EventHandler) PostManual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualJournalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if !domain.IsManualEventCode(req.EventCode) {
		writeError(w, http.StatusBadRequest, "unknown manual event code", req.EventCode)
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	input, err := req.ToUseCaseInput(tenantID, businessID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid manual journal", err.Error())
		return
	}

	h.post(w, r, input)
}

func (h *EventHandler) post(w http.ResponseWriter, r *http.Request, input usecase.PostEventInput) {
	entry, err := h.postingUC.PostEvent(r.Context(), input)
	if err != nil {
		metrics.RecordPostingError(input.EventCode, err)
		writeError(w, mapDomainError(err), "failed to post event", err.Error())
		return
	}

	metrics.RecordPosting(input.EventCode, len(entry.Lines))
	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
