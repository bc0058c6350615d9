package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

const ruleColumns = `id, tenant_id, business_id, event_code, name, priority, condition, account_id, direction, amount_source, collector_required, is_active, created_at, updated_at`

// RuleRepository implements usecase.RuleRepository. Conditions persist as
// JSONB so the flat field->value shape is queryable in place.
type RuleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// Create creates a new accounting rule.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.AccountingRule) error {
	condition, err := json.Marshal(rule.Condition)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO accounting_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rule.ID,
		rule.TenantID,
		rule.BusinessID,
		rule.EventCode,
		rule.Name,
		rule.Priority,
		condition,
		rule.AccountID,
		string(rule.Direction),
		rule.AmountSource,
		rule.CollectorRequired,
		rule.Active,
		timeToPgTimestamptz(rule.CreatedAt),
		timeToPgTimestamptz(rule.UpdatedAt),
	)

	return err
}

// GetByID retrieves a rule by ID within a business.
func (r *RuleRepository) GetByID(ctx context.Context, businessID, id string) (*domain.AccountingRule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ruleColumns+`
		FROM accounting_rules
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)

	return scanRule(row)
}

// Update rewrites the mutable rule fields.
func (r *RuleRepository) Update(ctx context.Context, rule *domain.AccountingRule) error {
	condition, err := json.Marshal(rule.Condition)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounting_rules
		SET name = $3, priority = $4, condition = $5, account_id = $6,
		    direction = $7, amount_source = $8, collector_required = $9,
		    is_active = $10, updated_at = $11
		WHERE business_id = $1 AND id = $2`,
		rule.BusinessID,
		rule.ID,
		rule.Name,
		rule.Priority,
		condition,
		rule.AccountID,
		string(rule.Direction),
		rule.AmountSource,
		rule.CollectorRequired,
		rule.Active,
		timeToPgTimestamptz(rule.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// Delete removes a rule row.
func (r *RuleRepository) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM accounting_rules
		WHERE business_id = $1 AND id = $2`,
		businessID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// ListByBusiness lists every rule configured for a business.
func (r *RuleRepository) ListByBusiness(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM accounting_rules
		WHERE tenant_id = $1 AND business_id = $2
		ORDER BY event_code, priority, id`,
		tenantID, businessID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRules(rows)
}

// ListActiveByEvent lists the active rules for one event code, already in
// priority order.
func (r *RuleRepository) ListActiveByEvent(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ruleColumns+`
		FROM accounting_rules
		WHERE tenant_id = $1 AND business_id = $2 AND event_code = $3 AND is_active
		ORDER BY priority, id`,
		tenantID, businessID, eventCode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRules(rows)
}

// CountByAccount counts rules referencing an account.
func (r *RuleRepository) CountByAccount(ctx context.Context, businessID, accountID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM accounting_rules
		WHERE business_id = $1 AND account_id = $2`,
		businessID, accountID,
	).Scan(&count)

	return count, err
}

func scanRule(row pgx.Row) (*domain.AccountingRule, error) {
	var (
		rule      domain.AccountingRule
		condition []byte
		direction string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.BusinessID,
		&rule.EventCode,
		&rule.Name,
		&rule.Priority,
		&condition,
		&rule.AccountID,
		&direction,
		&rule.AmountSource,
		&rule.CollectorRequired,
		&rule.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}

		return nil, err
	}

	if len(condition) > 0 {
		if err := json.Unmarshal(condition, &rule.Condition); err != nil {
			return nil, err
		}
	}

	rule.Direction = domain.Direction(direction)
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func collectRules(rows pgx.Rows) ([]*domain.AccountingRule, error) {
	var rules []*domain.AccountingRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}
