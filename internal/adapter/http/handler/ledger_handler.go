package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context, businessID string) (bool, error)
}

// LedgerHandler handles ledger-wide check requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Consistency verifies debit and credit totals agree. The business query
// parameter narrows the check to one business.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	businessID := r.URL.Query().Get("business")

	ok, err := h.ledgerUC.CheckConsistency(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			// The check completed; the ledger is the problem.
			writeJSON(w, http.StatusConflict, dto.ConsistencyResponse{Consistent: false})
			return
		}

		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: ok})
}
