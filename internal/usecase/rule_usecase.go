package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// RuleUseCase is the rule registry plus its administrative CRUD. Matching is
// the hot path used by every posting; the CRUD side exists so operators can
// configure businesses and invalidates the cache on every mutation.
type RuleUseCase struct {
	ruleRepo RuleRepository
	cache    RuleCache
	cacheTTL time.Duration
	idGen    IDGenerator
	now      func() time.Time
}

// NewRuleUseCase creates a new RuleUseCase. cache may be nil to disable
// rule-set caching.
func NewRuleUseCase(ruleRepo RuleRepository, cache RuleCache, cacheTTL time.Duration, idGen IDGenerator) *RuleUseCase {
	return &RuleUseCase{
		ruleRepo: ruleRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		idGen:    idGen,
		now:      time.Now,
	}
}

// MatchingRules returns the active rules for the event whose conditions match
// the payload, ordered by priority ascending with rule ID as tie-break. The
// ordering is deterministic so repeated postings of the same event produce
// identical line order in the audit trail.
func (uc *RuleUseCase) MatchingRules(ctx context.Context, tenantID, businessID, eventCode string, payload map[string]any) ([]*domain.AccountingRule, error) {
	rules, err := uc.activeRules(ctx, tenantID, businessID, eventCode)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.AccountingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Matches(payload) {
			matched = append(matched, rule)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}

func (uc *RuleUseCase) activeRules(ctx context.Context, tenantID, businessID, eventCode string) ([]*domain.AccountingRule, error) {
	if uc.cache != nil {
		if rules, ok, err := uc.cache.Get(ctx, tenantID, businessID, eventCode); err == nil && ok {
			return rules, nil
		}
	}

	rules, err := uc.ruleRepo.ListActiveByEvent(ctx, tenantID, businessID, eventCode)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// Cache failures must not fail the posting path.
		_ = uc.cache.Set(ctx, tenantID, businessID, eventCode, rules, uc.cacheTTL)
	}

	return rules, nil
}

// CreateRuleInput carries the persisted rule configuration shape.
type CreateRuleInput struct {
	TenantID          string
	BusinessID        string
	EventCode         string
	Name              string
	Priority          int
	Condition         domain.Condition
	AccountID         string
	Direction         domain.Direction
	AmountSource      string
	CollectorRequired bool
	Active            bool
}

// CreateRule creates a rule row and invalidates the business's cached rule sets.
func (uc *RuleUseCase) CreateRule(ctx context.Context, input CreateRuleInput) (*domain.AccountingRule, error) {
	now := uc.now().UTC()
	rule := &domain.AccountingRule{
		ID:                uc.idGen.Generate(),
		TenantID:          input.TenantID,
		BusinessID:        input.BusinessID,
		EventCode:         input.EventCode,
		Name:              input.Name,
		Priority:          input.Priority,
		Condition:         input.Condition,
		AccountID:         input.AccountID,
		Direction:         input.Direction,
		AmountSource:      input.AmountSource,
		CollectorRequired: input.CollectorRequired,
		Active:            input.Active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.TenantID, input.BusinessID)
	return rule, nil
}

// SetRuleActiveInput toggles a rule on or off.
type SetRuleActiveInput struct {
	TenantID   string
	BusinessID string
	RuleID     string
	Active     bool
}

// SetRuleActive flips the is_active flag, the only mutation rules support
// after creation.
func (uc *RuleUseCase) SetRuleActive(ctx context.Context, input SetRuleActiveInput) (*domain.AccountingRule, error) {
	rule, err := uc.ruleRepo.GetByID(ctx, input.BusinessID, input.RuleID)
	if err != nil {
		return nil, err
	}

	rule.Active = input.Active
	rule.UpdatedAt = uc.now().UTC()

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.TenantID, input.BusinessID)
	return rule, nil
}

// DeleteRule removes a rule row.
func (uc *RuleUseCase) DeleteRule(ctx context.Context, tenantID, businessID, ruleID string) error {
	if err := uc.ruleRepo.Delete(ctx, businessID, ruleID); err != nil {
		return err
	}

	uc.invalidate(ctx, tenantID, businessID)
	return nil
}

// ListRules lists every rule configured for the business.
func (uc *RuleUseCase) ListRules(ctx context.Context, tenantID, businessID string) ([]*domain.AccountingRule, error) {
	return uc.ruleRepo.ListByBusiness(ctx, tenantID, businessID)
}

func (uc *RuleUseCase) invalidate(ctx context.Context, tenantID, businessID string) {
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, tenantID, businessID)
	}
}
