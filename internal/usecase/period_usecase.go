package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// PeriodUseCase is the accounting-period state machine and its administration.
// Status transitions take a row lock on the period so that a transition and an
// in-flight posting for the same business cannot both commit against stale
// state.
type PeriodUseCase struct {
	txManager  TransactionManager
	periodRepo PeriodRepository
	retrier    Retrier
	idGen      IDGenerator
	now        func() time.Time
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(txManager TransactionManager, periodRepo PeriodRepository, retrier Retrier, idGen IDGenerator) *PeriodUseCase {
	return &PeriodUseCase{
		txManager:  txManager,
		periodRepo: periodRepo,
		retrier:    retrier,
		idGen:      idGen,
		now:        time.Now,
	}
}

// CreatePeriodInput represents input for creating a fiscal period.
type CreatePeriodInput struct {
	TenantID   string
	BusinessID string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
}

// CreatePeriod creates an open period after checking the business's existing
// periods for overlap.
func (uc *PeriodUseCase) CreatePeriod(ctx context.Context, input CreatePeriodInput) (*domain.Period, error) {
	now := uc.now().UTC()
	period := &domain.Period{
		ID:         uc.idGen.Generate(),
		TenantID:   input.TenantID,
		BusinessID: input.BusinessID,
		Name:       input.Name,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Status:     domain.PeriodStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := period.Validate(); err != nil {
		return nil, err
	}

	overlaps, err := uc.periodRepo.AnyOverlapping(ctx, input.BusinessID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, domain.ErrPeriodOverlaps
	}

	if err := uc.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}

	return period, nil
}

// ListPeriods lists the business's periods.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, businessID string) ([]*domain.Period, error) {
	return uc.periodRepo.ListByBusiness(ctx, businessID)
}

// GetPeriod retrieves a period by ID.
func (uc *PeriodUseCase) GetPeriod(ctx context.Context, businessID, id string) (*domain.Period, error) {
	return uc.periodRepo.GetByID(ctx, businessID, id)
}

// Authorize is the read-only precheck for a posting date. It returns the
// covering period's status, with a nil error only when the period is open.
func (uc *PeriodUseCase) Authorize(ctx context.Context, businessID string, journalDate time.Time) (domain.PeriodStatus, error) {
	period, err := uc.periodRepo.FindByDate(ctx, businessID, journalDate)
	if errors.Is(err, domain.ErrPeriodNotFound) {
		return "", domain.ErrNoPeriodDefined
	}
	if err != nil {
		return "", err
	}

	return period.Status, period.AuthorizePosting()
}

// ClosePeriod transitions open -> closed.
func (uc *PeriodUseCase) ClosePeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error) {
	return uc.transition(ctx, businessID, periodID, func(p *domain.Period) error {
		return p.Close(byUser, uc.now().UTC())
	})
}

// ReopenPeriod transitions closed -> open.
func (uc *PeriodUseCase) ReopenPeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error) {
	return uc.transition(ctx, businessID, periodID, func(p *domain.Period) error {
		return p.Reopen(uc.now().UTC())
	})
}

// LockPeriod is the irreversible administrative transition taken after audit
// sign-off. It is deliberately not reachable from the close/reopen endpoints.
func (uc *PeriodUseCase) LockPeriod(ctx context.Context, businessID, periodID, byUser string) (*domain.Period, error) {
	return uc.transition(ctx, businessID, periodID, func(p *domain.Period) error {
		return p.Lock(byUser, uc.now().UTC())
	})
}

// transition runs a status change under the period row lock. A posting
// transaction holds the same lock from authorization to commit, so whichever
// side commits second observes the other's effect.
func (uc *PeriodUseCase) transition(ctx context.Context, businessID, periodID string, apply func(*domain.Period) error) (*domain.Period, error) {
	var period *domain.Period

	run := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		locked, err := uc.periodRepo.GetByIDForUpdate(ctx, tx, businessID, periodID)
		if err != nil {
			return err
		}

		if err := apply(locked); err != nil {
			return err
		}

		if err := uc.periodRepo.UpdateStatus(ctx, tx, locked); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		period = locked
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	return period, nil
}
