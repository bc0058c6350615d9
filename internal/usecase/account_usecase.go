package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// AccountUseCase manages the chart-of-accounts hierarchy. Cycle prevention is
// structural: a parent must exist before a child can reference it, so the
// public API cannot construct a cycle; ParentChain still guards with a
// visited set.
type AccountUseCase struct {
	accountRepo AccountRepository
	ruleRepo    RuleRepository
	journalRepo JournalRepository
	idGen       IDGenerator
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, ruleRepo RuleRepository, journalRepo JournalRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		ruleRepo:    ruleRepo,
		journalRepo: journalRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// CreateAccountInput represents input for inserting an account.
type CreateAccountInput struct {
	TenantID   string
	BusinessID string
	Code       string
	Name       string
	Type       domain.AccountType
	ParentID   *string
}

// CreateAccount inserts a node into the chart of accounts. The returned
// account is fully populated, ID included.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := uc.now().UTC()
	account := &domain.Account{
		ID:         uc.idGen.Generate(),
		TenantID:   input.TenantID,
		BusinessID: input.BusinessID,
		Code:       strings.TrimSpace(input.Code),
		Name:       strings.TrimSpace(input.Name),
		Type:       input.Type,
		ParentID:   input.ParentID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		// Scoped by business, so a parent from another business comes back
		// as not found.
		_, err := uc.accountRepo.GetByID(ctx, input.BusinessID, *input.ParentID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidParent
		}
		if err != nil {
			return nil, err
		}
	}

	_, err := uc.accountRepo.GetByCode(ctx, input.BusinessID, account.Code)
	if err == nil {
		return nil, domain.ErrDuplicateCode
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID within a business.
func (uc *AccountUseCase) GetAccount(ctx context.Context, businessID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, businessID, id)
}

// ListAccounts lists the business's full chart of accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, businessID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListByBusiness(ctx, businessID)
}

// ParentChain returns the ancestry of an account ordered root first, the
// account itself last. A cycle in stored data fails with ErrCorruptHierarchy.
func (uc *AccountUseCase) ParentChain(ctx context.Context, businessID, id string) ([]*domain.Account, error) {
	var chain []*domain.Account
	visited := map[string]bool{}

	current := id
	for {
		if visited[current] {
			return nil, domain.ErrCorruptHierarchy
		}
		visited[current] = true

		account, err := uc.accountRepo.GetByID(ctx, businessID, current)
		if err != nil {
			return nil, err
		}

		// Prepend so the root ends up first.
		chain = append([]*domain.Account{account}, chain...)

		if account.ParentID == nil {
			return chain, nil
		}
		current = *account.ParentID
	}
}

// RemoveAccount deletes a leaf account that nothing references.
func (uc *AccountUseCase) RemoveAccount(ctx context.Context, businessID, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, businessID, id); err != nil {
		return err
	}

	hasChildren, err := uc.accountRepo.HasChildren(ctx, businessID, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return domain.ErrHasChildren
	}

	lineCount, err := uc.journalRepo.CountLinesByAccount(ctx, businessID, id)
	if err != nil {
		return err
	}
	if lineCount > 0 {
		return domain.ErrAccountInUse
	}

	ruleCount, err := uc.ruleRepo.CountByAccount(ctx, businessID, id)
	if err != nil {
		return err
	}
	if ruleCount > 0 {
		return domain.ErrAccountInUse
	}

	return uc.accountRepo.Delete(ctx, businessID, id)
}
