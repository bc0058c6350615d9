package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine is one leg of a journal entry. Amounts are always non-negative;
// the side is carried by Position.
type JournalLine struct {
	ID        string
	EntryID   string
	AccountID string
	Amount    decimal.Decimal
	Position  Direction
	CreatedAt time.Time
}

// JournalEntry is one atomic, balanced posting. Entries are immutable once
// written; corrections are new reversing entries.
type JournalEntry struct {
	ID          string
	TenantID    string
	BusinessID  string
	Source      SourceRef
	JournalDate time.Time
	Description string
	Lines       []JournalLine
	CreatedAt   time.Time
}

// DebitTotal sums the debit legs.
func (e *JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.Position == DirectionDebit {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// CreditTotal sums the credit legs.
func (e *JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.Position == DirectionCredit {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// BalanceDiff is debit total minus credit total. Zero for a valid entry.
func (e *JournalEntry) BalanceDiff() decimal.Decimal {
	return e.DebitTotal().Sub(e.CreditTotal())
}

// Validate enforces the entry invariants: at least two lines, non-negative
// amounts, and exact decimal balance.
func (e *JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return &UnbalancedEntryError{Diff: e.BalanceDiff()}
	}
	for _, line := range e.Lines {
		if line.Amount.IsNegative() {
			return ErrInvalidAmount
		}
		if line.Position != DirectionDebit && line.Position != DirectionCredit {
			return ErrInvalidRule
		}
	}
	if diff := e.BalanceDiff(); !diff.IsZero() {
		return &UnbalancedEntryError{Diff: diff}
	}
	return nil
}

// Reversed returns the mirrored lines for a reversing entry: same accounts
// and amounts with debit and credit swapped.
func (e *JournalEntry) Reversed() []JournalLine {
	lines := make([]JournalLine, 0, len(e.Lines))
	for _, line := range e.Lines {
		position := DirectionDebit
		if line.Position == DirectionDebit {
			position = DirectionCredit
		}
		lines = append(lines, JournalLine{
			AccountID: line.AccountID,
			Amount:    line.Amount,
			Position:  position,
		})
	}
	return lines
}
