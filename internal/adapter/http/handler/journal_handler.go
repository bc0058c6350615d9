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

// JournalService defines the read behavior needed by JournalHandler.
type JournalService interface {
	GetEntry(ctx context.Context, businessID, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error)
}

// ReversalService defines the reversal behavior needed by JournalHandler.
type ReversalService interface {
	ReverseEntry(ctx context.Context, input usecase.ReverseEntryInput) (*domain.JournalEntry, error)
}

// JournalHandler handles journal read and correction HTTP requests.
type JournalHandler struct {
	journalUC JournalService
	postingUC ReversalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService, postingUC ReversalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC, postingUC: postingUC}
}

// Get retrieves a journal entry with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	entry, err := h.journalUC.GetEntry(r.Context(), businessID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists journal entries, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListEntriesInput{
		BusinessID: chi.URLParam(r, "businessID"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	entries, err := h.journalUC.ListEntries(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
}

// Reverse posts a correcting entry that mirrors the original's lines.
func (h *JournalHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")
	entryID := chi.URLParam(r, "id")

	input, err := req.ToUseCaseInput(tenantID, businessID, entryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reversal", err.Error())
		return
	}

	entry, err := h.postingUC.ReverseEntry(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse entry", err.Error())
		return
	}

	metrics.RecordReversal()
	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
