package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Period errors
	ErrPeriodNotFound          = errors.New("accounting period not found")
	ErrPeriodClosed            = errors.New("accounting period is closed")
	ErrPeriodLocked            = errors.New("accounting period is locked")
	ErrNoPeriodDefined         = errors.New("no accounting period covers the journal date")
	ErrPeriodOverlaps          = errors.New("accounting period overlaps an existing period")
	ErrInvalidPeriodTransition = errors.New("invalid accounting period transition")
	ErrInvalidPeriodRange      = errors.New("period start date must not be after end date")

	// Posting errors
	ErrNoRulesConfigured   = errors.New("no accounting rules configured for event")
	ErrMissingAmountSource = errors.New("amount source field missing from payload")
	ErrInvalidAmount       = errors.New("amount must be a non-negative number")
	ErrCollectorRequired   = errors.New("collector user required for this event")
	ErrUnknownAccount      = errors.New("journal line references unknown account")
	ErrUnbalancedEntry     = errors.New("journal entry debits do not equal credits")

	// Account tree errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidParent    = errors.New("parent account does not exist for this business")
	ErrDuplicateCode    = errors.New("account code already exists for this business")
	ErrHasChildren      = errors.New("account has child accounts")
	ErrAccountInUse     = errors.New("account is referenced by journal lines or rules")
	ErrCorruptHierarchy = errors.New("account hierarchy contains a cycle")
	ErrInvalidAccount   = errors.New("invalid account")

	// Rule errors
	ErrRuleNotFound = errors.New("accounting rule not found")
	ErrInvalidRule  = errors.New("invalid accounting rule")

	// Journal errors
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrInvalidSource = errors.New("invalid source reference")
)

// MissingAmountSourceError reports which configured payload field was absent.
type MissingAmountSourceError struct {
	Source string
}

func (e *MissingAmountSourceError) Error() string {
	return fmt.Sprintf("amount source %q missing from payload", e.Source)
}

func (e *MissingAmountSourceError) Is(target error) bool {
	return target == ErrMissingAmountSource
}

// UnbalancedEntryError carries the debit-minus-credit difference that broke
// the balance invariant. It indicates a rule-set authoring bug.
type UnbalancedEntryError struct {
	Diff decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is unbalanced by %s", e.Diff.String())
}

func (e *UnbalancedEntryError) Is(target error) bool {
	return target == ErrUnbalancedEntry
}
