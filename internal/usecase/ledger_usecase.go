package usecase

import (
	"context"
	"errors"
)

var (
	// ErrInconsistentLedger is returned when posted lines do not balance.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// LedgerUseCase handles ledger-wide checks. Every accepted entry balances
// individually, so the business-wide totals must balance too; a mismatch
// means rows were mutated outside the posting pipeline.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// CheckConsistency verifies that debit and credit totals agree. businessID
// may be empty to check the whole ledger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, businessID string) (bool, error) {
	debit, credit, err := uc.ledgerRepo.TrialTotals(ctx, businessID)
	if err != nil {
		return false, err
	}

	if !debit.Equal(credit) {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
