package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

const periodColumns = `id, tenant_id, business_id, name, start_date, end_date, status, closed_at, closed_by, created_at, updated_at`

// PeriodRepository implements usecase.PeriodRepository. The ForUpdate
// variants take a row lock that serializes postings against status
// transitions on the same period.
type PeriodRepository struct {
	pool *pgxpool.Pool
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{pool: pool}
}

// Create creates a new period.
func (r *PeriodRepository) Create(ctx context.Context, period *domain.Period) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounting_periods (`+periodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		period.ID,
		period.TenantID,
		period.BusinessID,
		period.Name,
		timeToPgDate(period.StartDate),
		timeToPgDate(period.EndDate),
		string(period.Status),
		timePtrToPgTimestamptz(period.ClosedAt),
		textPtr(period.ClosedBy),
		timeToPgTimestamptz(period.CreatedAt),
		timeToPgTimestamptz(period.UpdatedAt),
	)
	// Concurrent creates race past the usecase overlap check; the exclusion
	// constraint on (business_id, daterange) is the authority.
	if pgErrCode(err) == pgErrExclusionViolation {
		return domain.ErrPeriodOverlaps
	}

	return err
}

// GetByID retrieves a period by ID within a business.
func (r *PeriodRepository) GetByID(ctx context.Context, businessID, id string) (*domain.Period, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)

	return scanPeriod(row)
}

// GetByIDForUpdate retrieves a period by ID with a FOR UPDATE lock.
func (r *PeriodRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, businessID, id string) (*domain.Period, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE business_id = $1 AND id = $2
		FOR UPDATE`,
		businessID, id,
	)

	return scanPeriod(row)
}

// FindByDate retrieves the period covering a journal date.
func (r *PeriodRepository) FindByDate(ctx context.Context, businessID string, date time.Time) (*domain.Period, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE business_id = $1 AND start_date <= $2 AND end_date >= $2`,
		businessID, timeToPgDate(date),
	)

	return scanPeriod(row)
}

// FindByDateForUpdate retrieves the covering period with a FOR UPDATE lock.
func (r *PeriodRepository) FindByDateForUpdate(ctx context.Context, tx usecase.Transaction, businessID string, date time.Time) (*domain.Period, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE business_id = $1 AND start_date <= $2 AND end_date >= $2
		FOR UPDATE`,
		businessID, timeToPgDate(date),
	)

	return scanPeriod(row)
}

// ListByBusiness lists the business's periods ordered by start date.
func (r *PeriodRepository) ListByBusiness(ctx context.Context, businessID string) ([]*domain.Period, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+periodColumns+`
		FROM accounting_periods
		WHERE business_id = $1
		ORDER BY start_date`,
		businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	return periods, rows.Err()
}

// AnyOverlapping reports whether any period of the business intersects the
// candidate date range, endpoints included.
func (r *PeriodRepository) AnyOverlapping(ctx context.Context, businessID string, start, end time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM accounting_periods
			WHERE business_id = $1 AND start_date <= $3 AND end_date >= $2
		)`,
		businessID, timeToPgDate(start), timeToPgDate(end),
	).Scan(&exists)

	return exists, err
}

// UpdateStatus persists a status transition inside its transaction.
func (r *PeriodRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE accounting_periods
		SET status = $3, closed_at = $4, closed_by = $5, updated_at = $6
		WHERE business_id = $1 AND id = $2`,
		period.BusinessID,
		period.ID,
		string(period.Status),
		timePtrToPgTimestamptz(period.ClosedAt),
		textPtr(period.ClosedBy),
		timeToPgTimestamptz(period.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPeriodNotFound
	}

	return nil
}

func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var (
		period    domain.Period
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
		closedAt  pgtype.Timestamptz
		closedBy  pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&period.ID,
		&period.TenantID,
		&period.BusinessID,
		&period.Name,
		&startDate,
		&endDate,
		&status,
		&closedAt,
		&closedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeriodNotFound
		}

		return nil, err
	}

	period.StartDate = pgDateToTime(startDate)
	period.EndDate = pgDateToTime(endDate)
	period.Status = domain.PeriodStatus(status)
	period.ClosedAt = pgTimestamptzToTimePtr(closedAt)
	period.ClosedBy = pgTextToPtr(closedBy)
	period.CreatedAt = createdAt.Time
	period.UpdatedAt = updatedAt.Time

	return &period, nil
}
