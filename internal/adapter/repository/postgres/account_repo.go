package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

const accountColumns = `id, tenant_id, business_id, code, name, type, parent_id, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID,
		account.TenantID,
		account.BusinessID,
		account.Code,
		account.Name,
		string(account.Type),
		textPtr(account.ParentID),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	// Concurrent inserts of the same code race past the usecase check; the
	// unique index on (business_id, code) is the authority.
	if pgErrCode(err) == pgErrUniqueViolation {
		return domain.ErrDuplicateCode
	}

	return err
}

// GetByID retrieves an account by ID within a business.
func (r *AccountRepository) GetByID(ctx context.Context, businessID, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)

	return scanAccount(row)
}

// GetByCode retrieves an account by its chart code within a business.
func (r *AccountRepository) GetByCode(ctx context.Context, businessID, code string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE business_id = $1 AND code = $2`,
		businessID, code,
	)

	return scanAccount(row)
}

// GetByIDsTx retrieves multiple accounts by ID inside a posting transaction.
// Missing IDs are simply absent from the result.
func (r *AccountRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, businessID string, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE business_id = $1 AND id = ANY($2)
		ORDER BY id`,
		businessID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListByBusiness lists the business's chart of accounts ordered by code.
func (r *AccountRepository) ListByBusiness(ctx context.Context, businessID string) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE business_id = $1
		ORDER BY code`,
		businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// HasChildren reports whether any account references this one as parent.
func (r *AccountRepository) HasChildren(ctx context.Context, businessID, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM accounts
			WHERE business_id = $1 AND parent_id = $2
		)`,
		businessID, id,
	).Scan(&exists)

	return exists, err
}

// Delete removes an account row.
func (r *AccountRepository) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM accounts
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		accType   string
		parentID  pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.TenantID,
		&account.BusinessID,
		&account.Code,
		&account.Name,
		&accType,
		&parentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Type = domain.AccountType(accType)
	account.ParentID = pgTextToPtr(parentID)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

func collectAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
