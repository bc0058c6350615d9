package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func balancedEntry() *JournalEntry {
	return &JournalEntry{
		ID:         "je-1",
		TenantID:   "t1",
		BusinessID: "b1",
		Lines: []JournalLine{
			{AccountID: "acc-kas", Amount: decimal.NewFromInt(100000), Position: DirectionDebit},
			{AccountID: "acc-penjualan", Amount: decimal.NewFromInt(100000), Position: DirectionCredit},
		},
	}
}

func TestJournalEntry_Validate(t *testing.T) {
	t.Run("balanced entry is valid", func(t *testing.T) {
		if err := balancedEntry().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unbalanced entry carries the difference", func(t *testing.T) {
		e := balancedEntry()
		e.Lines[1].Amount = decimal.NewFromInt(99999)

		err := e.Validate()
		if !errors.Is(err, ErrUnbalancedEntry) {
			t.Fatalf("expected ErrUnbalancedEntry, got %v", err)
		}

		var unbalanced *UnbalancedEntryError
		if !errors.As(err, &unbalanced) {
			t.Fatal("expected *UnbalancedEntryError")
		}
		if !unbalanced.Diff.Equal(decimal.NewFromInt(1)) {
			t.Errorf("expected diff 1, got %s", unbalanced.Diff)
		}
	})

	t.Run("single line is rejected", func(t *testing.T) {
		e := balancedEntry()
		e.Lines = e.Lines[:1]

		if err := e.Validate(); !errors.Is(err, ErrUnbalancedEntry) {
			t.Errorf("expected ErrUnbalancedEntry, got %v", err)
		}
	})

	t.Run("negative line amount is rejected", func(t *testing.T) {
		e := balancedEntry()
		e.Lines[0].Amount = decimal.NewFromInt(-100000)
		e.Lines[1].Amount = decimal.NewFromInt(-100000)

		if err := e.Validate(); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("multi-leg entry balances in aggregate", func(t *testing.T) {
		e := balancedEntry()
		e.Lines = []JournalLine{
			{AccountID: "acc-kas", Amount: decimal.NewFromInt(60000), Position: DirectionDebit},
			{AccountID: "acc-piutang", Amount: decimal.NewFromInt(40000), Position: DirectionDebit},
			{AccountID: "acc-penjualan", Amount: decimal.NewFromInt(100000), Position: DirectionCredit},
		}

		if err := e.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("no rounding drift on decimal cents", func(t *testing.T) {
		debit, _ := decimal.NewFromString("0.1")
		debit2, _ := decimal.NewFromString("0.2")
		credit, _ := decimal.NewFromString("0.3")

		e := balancedEntry()
		e.Lines = []JournalLine{
			{AccountID: "a", Amount: debit, Position: DirectionDebit},
			{AccountID: "b", Amount: debit2, Position: DirectionDebit},
			{AccountID: "c", Amount: credit, Position: DirectionCredit},
		}

		if err := e.Validate(); err != nil {
			t.Errorf("0.1 + 0.2 should equal 0.3 exactly, got %v", err)
		}
	})
}

func TestJournalEntry_Reversed(t *testing.T) {
	e := balancedEntry()

	lines := e.Reversed()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Position != DirectionCredit {
		t.Errorf("debit leg should flip to credit, got %s", lines[0].Position)
	}
	if lines[1].Position != DirectionDebit {
		t.Errorf("credit leg should flip to debit, got %s", lines[1].Position)
	}
	if !lines[0].Amount.Equal(e.Lines[0].Amount) {
		t.Error("amounts must be preserved")
	}

	reversal := &JournalEntry{ID: "je-2", TenantID: "t1", BusinessID: "b1", Lines: lines}
	if err := reversal.Validate(); err != nil {
		t.Errorf("reversal of a balanced entry must balance: %v", err)
	}
}
