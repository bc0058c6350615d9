package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		ParentID:  a.ParentID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// PeriodResponse represents an accounting period in API responses.
type PeriodResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	ClosedBy  *string    `json:"closed_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PeriodFromDomain converts domain period to response.
func PeriodFromDomain(p *domain.Period) *PeriodResponse {
	return &PeriodResponse{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate.Format(journalDateLayout),
		EndDate:   p.EndDate.Format(journalDateLayout),
		Status:    string(p.Status),
		ClosedAt:  p.ClosedAt,
		ClosedBy:  p.ClosedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.Period) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// RuleResponse represents an accounting rule in API responses.
type RuleResponse struct {
	ID                string           `json:"id"`
	EventCode         string           `json:"event_code"`
	Name              string           `json:"name"`
	Priority          int              `json:"priority"`
	Condition         domain.Condition `json:"condition"`
	AccountID         string           `json:"account_id"`
	Direction         string           `json:"direction"`
	AmountSource      string           `json:"amount_source"`
	CollectorRequired bool             `json:"collector_required"`
	Active            bool             `json:"active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// RuleFromDomain converts domain rule to response.
func RuleFromDomain(r *domain.AccountingRule) *RuleResponse {
	return &RuleResponse{
		ID:                r.ID,
		EventCode:         r.EventCode,
		Name:              r.Name,
		Priority:          r.Priority,
		Condition:         r.Condition,
		AccountID:         r.AccountID,
		Direction:         string(r.Direction),
		AmountSource:      r.AmountSource,
		CollectorRequired: r.CollectorRequired,
		Active:            r.Active,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.AccountingRule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// JournalLineResponse represents one journal line in API responses.
type JournalLineResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Position  string          `json:"position"`
}

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	ID          string                `json:"id"`
	SourceType  string                `json:"source_type"`
	SourceID    string                `json:"source_id"`
	JournalDate string                `json:"journal_date"`
	Description string                `json:"description,omitempty"`
	Lines       []JournalLineResponse `json:"lines"`
	CreatedAt   time.Time             `json:"created_at"`
}

// EntryFromDomain converts domain journal entry to response.
func EntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			ID:        l.ID,
			AccountID: l.AccountID,
			Amount:    l.Amount,
			Position:  string(l.Position),
		}
	}

	return &JournalEntryResponse{
		ID:          e.ID,
		SourceType:  string(e.Source.Type),
		SourceID:    e.Source.ID,
		JournalDate: e.JournalDate.Format(journalDateLayout),
		Description: e.Description,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain journal entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a journal page.
type ListEntriesResponse struct {
	Entries []*JournalEntryResponse `json:"entries"`
	Limit   int                     `json:"limit"`
	Offset  int                     `json:"offset"`
}

// ConsistencyResponse reports the ledger-wide balance check.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
