package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mitraisp/mitrabooks/internal/adapter/http/dto"
	"github.com/mitraisp/mitrabooks/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeJSON decodes a request body with json.Number, so payload amounts
// reach the amount resolver with their exact decimal text.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrPeriodLocked),
		errors.Is(err, domain.ErrInvalidPeriodTransition),
		errors.Is(err, domain.ErrPeriodOverlaps),
		errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrHasChildren),
		errors.Is(err, domain.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoPeriodDefined),
		errors.Is(err, domain.ErrNoRulesConfigured),
		errors.Is(err, domain.ErrMissingAmountSource),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrCollectorRequired),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrInvalidPeriodRange),
		errors.Is(err, domain.ErrInvalidParent),
		errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrInvalidRule),
		errors.Is(err, domain.ErrInvalidSource):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
