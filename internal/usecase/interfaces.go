package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, businessID, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, businessID, code string) (*domain.Account, error)
	// GetByIDsTx fetches accounts inside the posting transaction so the
	// account validation and the insert see the same snapshot.
	GetByIDsTx(ctx context.Context, tx Transaction, businessID string, ids []string) ([]*domain.Account, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*domain.Account, error)
	HasChildren(ctx context.Context, businessID, id string) (bool, error)
	Delete(ctx context.Context, businessID, id string) error
}

// RuleRepository defines data access for accounting rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.AccountingRule) error
	GetByID(ctx context.Context, businessID, id string) (*domain.AccountingRule, error)
	Update(ctx context.Context, rule *domain.AccountingRule) error
	Delete(ctx context.Context, businessID, id string) error
	ListByBusiness(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error)
	ListActiveByEvent(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, error)
	CountByAccount(ctx context.Context, businessID, accountID string) (int64, error)
}

// PeriodRepository defines data access for accounting periods.
type PeriodRepository interface {
	Create(ctx context.Context, period *domain.Period) error
	GetByID(ctx context.Context, businessID, id string) (*domain.Period, error)
	// GetByIDForUpdate takes a row lock on the period, serializing status
	// transitions against in-flight postings.
	GetByIDForUpdate(ctx context.Context, tx Transaction, businessID, id string) (*domain.Period, error)
	FindByDate(ctx context.Context, businessID string, date time.Time) (*domain.Period, error)
	// FindByDateForUpdate locks the covering period row for the duration of
	// a posting transaction.
	FindByDateForUpdate(ctx context.Context, tx Transaction, businessID string, date time.Time) (*domain.Period, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*domain.Period, error)
	AnyOverlapping(ctx context.Context, businessID string, start, end time.Time) (bool, error)
	UpdateStatus(ctx context.Context, tx Transaction, period *domain.Period) error
}

// JournalRepository defines data access for journal entries and lines.
type JournalRepository interface {
	// CreateEntry writes the entry header and all its lines inside tx.
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, businessID, id string) (*domain.JournalEntry, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*domain.JournalEntry, error)
	CountLinesByAccount(ctx context.Context, businessID, accountID string) (int64, error)
	FindReversal(ctx context.Context, businessID, originalEntryID string) (*domain.JournalEntry, error)
}

// LedgerRepository defines ledger-wide aggregate checks.
type LedgerRepository interface {
	// TrialTotals sums all debit and credit line amounts for a business.
	// An empty businessID sums across every business.
	TrialTotals(ctx context.Context, businessID string) (debit, credit decimal.Decimal, err error)
}

// RuleCache caches active rule sets per (tenant, business, event code).
type RuleCache interface {
	Get(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, bool, error)
	Set(ctx context.Context, tenantID, businessID, eventCode string, rules []*domain.AccountingRule, ttl time.Duration) error
	// Invalidate drops every cached rule set for the business.
	Invalidate(ctx context.Context, tenantID, businessID string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation after a serialization conflict. Postings are
// deterministic and write nothing before commit, so a conflicted transaction
// is safe to retry with the same input.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
