package usecase

import (
	"context"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// JournalUseCase exposes the read side of the journal to domain modules and
// the HTTP surface.
type JournalUseCase struct {
	journalRepo JournalRepository
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(journalRepo JournalRepository) *JournalUseCase {
	return &JournalUseCase{journalRepo: journalRepo}
}

// GetEntry retrieves a journal entry with its lines.
func (uc *JournalUseCase) GetEntry(ctx context.Context, businessID, id string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, businessID, id)
}

// ListEntriesInput represents input for listing journal entries.
type ListEntriesInput struct {
	BusinessID string
	Limit      int
	Offset     int
}

// ListEntries lists journal entries with lines, newest first.
func (uc *JournalUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.journalRepo.ListByBusiness(ctx, input.BusinessID, input.Limit, input.Offset)
}

// FindReversal returns the reversing entry for an original, if one exists.
func (uc *JournalUseCase) FindReversal(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	return uc.journalRepo.FindReversal(ctx, businessID, entryID)
}
