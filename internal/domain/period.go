package domain

import "time"

// PeriodStatus is the lifecycle state gating whether postings are accepted.
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
	PeriodStatusLocked PeriodStatus = "locked"
)

// Period is a bounded fiscal window per business. Dates are inclusive on both
// ends and carried as UTC midnights.
type Period struct {
	ID         string
	TenantID   string
	BusinessID string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Status     PeriodStatus
	ClosedAt   *time.Time
	ClosedBy   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the date-range invariant.
func (p *Period) Validate() error {
	if p.TenantID == "" || p.BusinessID == "" || p.Name == "" {
		return ErrInvalidPeriodRange
	}
	if p.EndDate.Before(p.StartDate) {
		return ErrInvalidPeriodRange
	}
	return nil
}

// Contains reports whether date falls inside [StartDate, EndDate].
func (p *Period) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// Overlaps reports whether [start, end] intersects this period's range.
func (p *Period) Overlaps(start, end time.Time) bool {
	return !end.Before(p.StartDate) && !start.After(p.EndDate)
}

// AuthorizePosting translates the period status into the posting decision.
func (p *Period) AuthorizePosting() error {
	switch p.Status {
	case PeriodStatusOpen:
		return nil
	case PeriodStatusClosed:
		return ErrPeriodClosed
	case PeriodStatusLocked:
		return ErrPeriodLocked
	default:
		return ErrInvalidPeriodTransition
	}
}

// Close moves the period open -> closed, recording who closed it and when.
// A locked period stays locked; any other state is an invalid transition.
func (p *Period) Close(by string, at time.Time) error {
	switch p.Status {
	case PeriodStatusOpen:
		p.Status = PeriodStatusClosed
		p.ClosedAt = &at
		p.ClosedBy = &by
		p.UpdatedAt = at
		return nil
	case PeriodStatusLocked:
		return ErrPeriodLocked
	default:
		return ErrInvalidPeriodTransition
	}
}

// Reopen moves the period closed -> open, clearing the close audit fields.
func (p *Period) Reopen(at time.Time) error {
	switch p.Status {
	case PeriodStatusClosed:
		p.Status = PeriodStatusOpen
		p.ClosedAt = nil
		p.ClosedBy = nil
		p.UpdatedAt = at
		return nil
	case PeriodStatusLocked:
		return ErrPeriodLocked
	default:
		return ErrInvalidPeriodTransition
	}
}

// Lock is the irreversible administrative transition. It is valid from both
// open and closed; a period already locked stays locked.
func (p *Period) Lock(by string, at time.Time) error {
	switch p.Status {
	case PeriodStatusOpen, PeriodStatusClosed:
		p.Status = PeriodStatusLocked
		if p.ClosedAt == nil {
			p.ClosedAt = &at
			p.ClosedBy = &by
		}
		p.UpdatedAt = at
		return nil
	case PeriodStatusLocked:
		return ErrPeriodLocked
	default:
		return ErrInvalidPeriodTransition
	}
}
