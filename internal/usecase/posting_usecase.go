package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// RuleSource resolves the ordered rule set for an event. Satisfied by
// RuleUseCase; an interface so posting tests can drive rule sets directly.
type RuleSource interface {
	MatchingRules(ctx context.Context, tenantID, businessID, eventCode string, payload map[string]any) ([]*domain.AccountingRule, error)
}

// PostingUseCase turns business events into balanced journal entries. One
// PostEvent call is one database transaction: the covering period row is
// locked from authorization through commit, so a concurrent period close
// either waits for the posting or rejects it, never both.
type PostingUseCase struct {
	txManager   TransactionManager
	periodRepo  PeriodRepository
	accountRepo AccountRepository
	journalRepo JournalRepository
	rules       RuleSource
	retrier     Retrier
	idGen       IDGenerator
	now         func() time.Time
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	periodRepo PeriodRepository,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	rules RuleSource,
	retrier Retrier,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		periodRepo:  periodRepo,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		rules:       rules,
		retrier:     retrier,
		idGen:       idGen,
		now:         time.Now,
	}
}

// PostEventInput represents one business event to translate into a posting.
type PostEventInput struct {
	TenantID    string
	BusinessID  string
	EventCode   string
	JournalDate time.Time
	Payload     map[string]any
	Source      domain.SourceRef
	Description string
}

// PostEvent runs the event -> rule -> journal pipeline and commits one
// balanced entry, or writes nothing at all.
func (uc *PostingUseCase) PostEvent(ctx context.Context, input PostEventInput) (*domain.JournalEntry, error) {
	// Period authorization comes first: a date outside any period or inside
	// a closed one is rejected before rules are even consulted. The covering
	// period is re-read under a row lock inside the transaction, so this
	// lock-free read is a gate, not the authority.
	period, err := uc.periodRepo.FindByDate(ctx, input.BusinessID, input.JournalDate)
	if errors.Is(err, domain.ErrPeriodNotFound) {
		return nil, domain.ErrNoPeriodDefined
	}
	if err != nil {
		return nil, err
	}
	if err := period.AuthorizePosting(); err != nil {
		return nil, err
	}

	// Rules are read-only at posting time, so matching and amount resolution
	// happen before the transaction begins.
	rules, err := uc.rules.MatchingRules(ctx, input.TenantID, input.BusinessID, input.EventCode, input.Payload)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, domain.ErrNoRulesConfigured
	}

	if err := checkCollector(rules, input.Payload); err != nil {
		return nil, err
	}

	lines := make([]domain.JournalLine, 0, len(rules))
	for _, rule := range rules {
		amount, err := ResolveAmount(rule, input.Payload)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalLine{
			AccountID: rule.AccountID,
			Amount:    amount,
			Position:  rule.Direction,
		})
	}

	var entry *domain.JournalEntry
	run := func() error {
		committed, err := uc.commitEntry(ctx, input, lines)
		if err != nil {
			return err
		}
		entry = committed
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// commitEntry is the transactional tail of PostEvent: authorize the date
// under the period row lock, validate accounts, check the balance, insert.
func (uc *PostingUseCase) commitEntry(ctx context.Context, input PostEventInput, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	period, err := uc.periodRepo.FindByDateForUpdate(ctx, tx, input.BusinessID, input.JournalDate)
	if errors.Is(err, domain.ErrPeriodNotFound) {
		return nil, domain.ErrNoPeriodDefined
	}
	if err != nil {
		return nil, err
	}
	if err := period.AuthorizePosting(); err != nil {
		return nil, err
	}

	if err := uc.validateAccounts(ctx, tx, input.BusinessID, lines); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	entry := &domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		TenantID:    input.TenantID,
		BusinessID:  input.BusinessID,
		Source:      input.Source,
		JournalDate: input.JournalDate,
		Description: input.Description,
		CreatedAt:   now,
	}
	for _, line := range lines {
		line.ID = uc.idGen.Generate()
		line.EntryID = entry.ID
		line.CreatedAt = now
		entry.Lines = append(entry.Lines, line)
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.journalRepo.CreateEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *PostingUseCase) validateAccounts(ctx context.Context, tx Transaction, businessID string, lines []domain.JournalLine) error {
	ids := collectAccountIDs(lines)

	accounts, err := uc.accountRepo.GetByIDsTx(ctx, tx, businessID, ids)
	if err != nil {
		return err
	}
	if len(accounts) != len(ids) {
		return domain.ErrUnknownAccount
	}

	return nil
}

func collectAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]bool, len(lines))

	var ids []string
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}
	sort.Strings(ids)

	return ids
}

// checkCollector enforces the collector precondition: any matched rule with
// CollectorRequired demands a non-empty collector_user_id in the payload.
func checkCollector(rules []*domain.AccountingRule, payload map[string]any) error {
	required := false
	for _, rule := range rules {
		if rule.CollectorRequired {
			required = true
			break
		}
	}
	if !required {
		return nil
	}

	collector, ok := payload[domain.CollectorField]
	if !ok {
		return domain.ErrCollectorRequired
	}
	if s, isString := collector.(string); isString && s == "" {
		return domain.ErrCollectorRequired
	}
	if collector == nil {
		return domain.ErrCollectorRequired
	}

	return nil
}

// ReverseEntryInput identifies the entry to reverse and when to post the
// reversal.
type ReverseEntryInput struct {
	TenantID    string
	BusinessID  string
	EntryID     string
	JournalDate *time.Time
	Description string
}

// ReverseEntry posts a new entry mirroring an existing one. Entries are
// immutable, so this is the only correction mechanism. The reversal goes
// through the same period authorization as any posting.
func (uc *PostingUseCase) ReverseEntry(ctx context.Context, input ReverseEntryInput) (*domain.JournalEntry, error) {
	original, err := uc.journalRepo.GetByID(ctx, input.BusinessID, input.EntryID)
	if err != nil {
		return nil, err
	}

	journalDate := original.JournalDate
	if input.JournalDate != nil {
		journalDate = *input.JournalDate
	}

	description := input.Description
	if description == "" {
		description = "Reversal of " + original.ID
	}

	lines := original.Reversed()

	var entry *domain.JournalEntry
	run := func() error {
		committed, err := uc.commitEntry(ctx, PostEventInput{
			TenantID:    input.TenantID,
			BusinessID:  input.BusinessID,
			JournalDate: journalDate,
			Source:      domain.SourceRef{Type: domain.SourceReversal, ID: original.ID},
			Description: description,
		}, lines)
		if err != nil {
			return err
		}
		entry = committed
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}
