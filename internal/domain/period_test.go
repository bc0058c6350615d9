package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openPeriod() *Period {
	return &Period{
		ID:         "p1",
		TenantID:   "t1",
		BusinessID: "b1",
		Name:       "March 2026",
		StartDate:  date(2026, time.March, 1),
		EndDate:    date(2026, time.March, 31),
		Status:     PeriodStatusOpen,
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := openPeriod()

	if !p.Contains(date(2026, time.March, 1)) {
		t.Error("start date should be inside the period")
	}
	if !p.Contains(date(2026, time.March, 31)) {
		t.Error("end date should be inside the period")
	}
	if p.Contains(date(2026, time.April, 1)) {
		t.Error("day after end date should be outside the period")
	}
	if p.Contains(date(2026, time.February, 28)) {
		t.Error("day before start date should be outside the period")
	}
}

func TestPeriod_Overlaps(t *testing.T) {
	p := openPeriod()

	if !p.Overlaps(date(2026, time.March, 15), date(2026, time.April, 15)) {
		t.Error("partially overlapping range should overlap")
	}
	if !p.Overlaps(date(2026, time.February, 1), date(2026, time.April, 30)) {
		t.Error("containing range should overlap")
	}
	if p.Overlaps(date(2026, time.April, 1), date(2026, time.April, 30)) {
		t.Error("adjacent following range should not overlap")
	}
}

func TestPeriod_CloseReopen(t *testing.T) {
	p := openPeriod()
	now := date(2026, time.April, 2)

	if err := p.Close("admin-1", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PeriodStatusClosed {
		t.Fatalf("expected closed, got %s", p.Status)
	}
	if p.ClosedAt == nil || p.ClosedBy == nil || *p.ClosedBy != "admin-1" {
		t.Error("close should record closed_at and closed_by")
	}

	// Closing again is an invalid transition.
	if err := p.Close("admin-1", now); err != ErrInvalidPeriodTransition {
		t.Errorf("expected ErrInvalidPeriodTransition, got %v", err)
	}

	if err := p.Reopen(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PeriodStatusOpen {
		t.Fatalf("expected open, got %s", p.Status)
	}
	if p.ClosedAt != nil || p.ClosedBy != nil {
		t.Error("reopen should clear the close audit fields")
	}

	// Reopening an open period is an invalid transition.
	if err := p.Reopen(now); err != ErrInvalidPeriodTransition {
		t.Errorf("expected ErrInvalidPeriodTransition, got %v", err)
	}
}

func TestPeriod_LockIsTerminal(t *testing.T) {
	now := date(2026, time.April, 2)

	t.Run("lock from open", func(t *testing.T) {
		p := openPeriod()
		if err := p.Lock("auditor-1", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != PeriodStatusLocked {
			t.Fatalf("expected locked, got %s", p.Status)
		}
	})

	t.Run("lock from closed", func(t *testing.T) {
		p := openPeriod()
		if err := p.Close("admin-1", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := p.Lock("auditor-1", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("no transition out of locked", func(t *testing.T) {
		p := openPeriod()
		if err := p.Lock("auditor-1", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := p.Close("admin-1", now); err != ErrPeriodLocked {
			t.Errorf("close on locked: expected ErrPeriodLocked, got %v", err)
		}
		if err := p.Reopen(now); err != ErrPeriodLocked {
			t.Errorf("reopen on locked: expected ErrPeriodLocked, got %v", err)
		}
		if err := p.Lock("auditor-1", now); err != ErrPeriodLocked {
			t.Errorf("lock on locked: expected ErrPeriodLocked, got %v", err)
		}
	})
}

func TestPeriod_AuthorizePosting(t *testing.T) {
	p := openPeriod()

	if err := p.AuthorizePosting(); err != nil {
		t.Errorf("open period should authorize posting, got %v", err)
	}

	p.Status = PeriodStatusClosed
	if err := p.AuthorizePosting(); err != ErrPeriodClosed {
		t.Errorf("expected ErrPeriodClosed, got %v", err)
	}

	p.Status = PeriodStatusLocked
	if err := p.AuthorizePosting(); err != ErrPeriodLocked {
		t.Errorf("expected ErrPeriodLocked, got %v", err)
	}
}
