package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// TrialTotals sums the debit and credit columns across all posted lines.
// An empty businessID sums the whole ledger.
func (r *LedgerRepository) TrialTotals(ctx context.Context, businessID string) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(l.amount) FILTER (WHERE l.position = $1), 0),
			COALESCE(SUM(l.amount) FILTER (WHERE l.position = $2), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE $3 = '' OR e.business_id = $3`,
		string(domain.DirectionDebit), string(domain.DirectionCredit), businessID,
	).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debit), numericToDecimal(credit), nil
}
