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

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, businessID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, businessID string) ([]*domain.Account, error)
	ParentChain(ctx context.Context, businessID, id string) ([]*domain.Account, error)
	RemoveAccount(ctx context.Context, businessID, id string) error
}

// AccountHandler handles chart-of-accounts HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tenantID := middleware.TenantFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(tenantID, businessID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	account, err := h.accountUC.GetAccount(r.Context(), businessID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the business's chart of accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	accounts, err := h.accountUC.ListAccounts(r.Context(), businessID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Chain returns the account's ancestry, root first.
func (h *AccountHandler) Chain(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	chain, err := h.accountUC.ParentChain(r.Context(), businessID, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve account chain", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(chain))
}

// Delete removes an unreferenced leaf account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	id := chi.URLParam(r, "id")

	if err := h.accountUC.RemoveAccount(r.Context(), businessID, id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
