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

// JournalRepository implements usecase.JournalRepository. An entry and its
// lines are only ever written together inside a posting transaction; the
// line_no column preserves the rule-priority order the pipeline produced.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateEntry persists an entry with all of its lines.
func (r *JournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO journal_entries (id, tenant_id, business_id, source_type, source_id, journal_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.TenantID,
		entry.BusinessID,
		string(entry.Source.Type),
		entry.Source.ID,
		timeToPgDate(entry.JournalDate),
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, line := range entry.Lines {
		batch.Queue(`
			INSERT INTO journal_lines (id, entry_id, line_no, account_id, amount, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			line.ID,
			entry.ID,
			i,
			line.AccountID,
			decimalToNumeric(line.Amount),
			string(line.Position),
			timeToPgTimestamptz(line.CreatedAt),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, businessID, id string) (*domain.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, business_id, source_type, source_id, journal_date, description, created_at
		FROM journal_entries
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}

	lines, err := r.linesForEntries(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.ID]

	return entry, nil
}

// ListByBusiness lists entries with lines, newest first.
func (r *JournalRepository) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, business_id, source_type, source_id, journal_date, description, created_at
		FROM journal_entries
		WHERE business_id = $1
		ORDER BY journal_date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		businessID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		entries []*domain.JournalEntry
		ids     []string
	)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return entries, nil
	}

	lines, err := r.linesForEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.Lines = lines[entry.ID]
	}

	return entries, nil
}

// CountLinesByAccount counts journal lines touching an account.
func (r *JournalRepository) CountLinesByAccount(ctx context.Context, businessID, accountID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.business_id = $1 AND l.account_id = $2`,
		businessID, accountID,
	).Scan(&count)

	return count, err
}

// FindReversal retrieves the entry that reverses the given original.
func (r *JournalRepository) FindReversal(ctx context.Context, businessID, originalEntryID string) (*domain.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tenant_id, business_id, source_type, source_id, journal_date, description, created_at
		FROM journal_entries
		WHERE business_id = $1 AND source_type = $2 AND source_id = $3`,
		businessID, string(domain.SourceReversal), originalEntryID,
	)

	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}

	lines, err := r.linesForEntries(ctx, []string{entry.ID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entry.ID]

	return entry, nil
}

func (r *JournalRepository) linesForEntries(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entry_id, account_id, amount, position, created_at
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no`,
		entryIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var (
			line      domain.JournalLine
			amount    pgtype.Numeric
			position  string
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &amount, &position, &createdAt); err != nil {
			return nil, err
		}
		line.Amount = numericToDecimal(amount)
		line.Position = domain.Direction(position)
		line.CreatedAt = createdAt.Time
		lines[line.EntryID] = append(lines[line.EntryID], line)
	}

	return lines, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		entry       domain.JournalEntry
		sourceType  string
		journalDate pgtype.Date
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.BusinessID,
		&sourceType,
		&entry.Source.ID,
		&journalDate,
		&entry.Description,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Source.Type = domain.SourceType(sourceType)
	entry.JournalDate = pgDateToTime(journalDate)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
