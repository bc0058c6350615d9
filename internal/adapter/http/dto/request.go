package dto

import (
	"time"

	"github.com/mitraisp/mitrabooks/internal/domain"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

// journalDateLayout is the wire format for journal and period dates.
// Accounting dates are calendar days, not instants.
const journalDateLayout = "2006-01-02"

// ParseJournalDate parses a wire date into the UTC-midnight representation
// the domain uses everywhere.
func ParseJournalDate(s string) (time.Time, error) {
	return time.Parse(journalDateLayout, s)
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	ParentID *string `json:"parent_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(tenantID, businessID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		TenantID:   tenantID,
		BusinessID: businessID,
		Code:       r.Code,
		Name:       r.Name,
		Type:       domain.AccountType(r.Type),
		ParentID:   r.ParentID,
	}
}

// CreatePeriodRequest represents a request to create an accounting period.
type CreatePeriodRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePeriodRequest) ToUseCaseInput(tenantID, businessID string) (usecase.CreatePeriodInput, error) {
	start, err := ParseJournalDate(r.StartDate)
	if err != nil {
		return usecase.CreatePeriodInput{}, err
	}
	end, err := ParseJournalDate(r.EndDate)
	if err != nil {
		return usecase.CreatePeriodInput{}, err
	}

	return usecase.CreatePeriodInput{
		TenantID:   tenantID,
		BusinessID: businessID,
		Name:       r.Name,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// PeriodTransitionRequest carries the acting user for close/reopen/lock.
type PeriodTransitionRequest struct {
	ByUser string `json:"by_user"`
}

// CreateRuleRequest represents a request to create an accounting rule.
type CreateRuleRequest struct {
	EventCode         string           `json:"event_code"`
	Name              string           `json:"name"`
	Priority          int              `json:"priority"`
	Condition         domain.Condition `json:"condition,omitempty"`
	AccountID         string           `json:"account_id"`
	Direction         string           `json:"direction"`
	AmountSource      string           `json:"amount_source"`
	CollectorRequired bool             `json:"collector_required"`
	Active            *bool            `json:"active,omitempty"`
}

// ToUseCaseInput converts to use case input. Rules default to active.
func (r *CreateRuleRequest) ToUseCaseInput(tenantID, businessID string) usecase.CreateRuleInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return usecase.CreateRuleInput{
		TenantID:          tenantID,
		BusinessID:        businessID,
		EventCode:         r.EventCode,
		Name:              r.Name,
		Priority:          r.Priority,
		Condition:         r.Condition,
		AccountID:         r.AccountID,
		Direction:         domain.Direction(r.Direction),
		AmountSource:      r.AmountSource,
		CollectorRequired: r.CollectorRequired,
		Active:            active,
	}
}

// SetRuleActiveRequest toggles a rule's is_active flag.
type SetRuleActiveRequest struct {
	Active bool `json:"active"`
}

// PostEventRequest represents a business event to post. The payload is
// decoded with json.Number so amounts keep their exact decimal text.
type PostEventRequest struct {
	EventCode   string         `json:"event_code"`
	JournalDate string         `json:"journal_date"`
	SourceType  string         `json:"source_type"`
	SourceID    string         `json:"source_id"`
	Description string         `json:"description,omitempty"`
	Payload     map[string]any `json:"payload"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEventRequest) ToUseCaseInput(tenantID, businessID string) (usecase.PostEventInput, error) {
	journalDate, err := ParseJournalDate(r.JournalDate)
	if err != nil {
		return usecase.PostEventInput{}, err
	}

	sourceType, err := domain.ParseSourceType(r.SourceType)
	if err != nil {
		return usecase.PostEventInput{}, err
	}

	return usecase.PostEventInput{
		TenantID:    tenantID,
		BusinessID:  businessID,
		EventCode:   r.EventCode,
		JournalDate: journalDate,
		Payload:     r.Payload,
		Source:      domain.SourceRef{Type: sourceType, ID: r.SourceID},
		Description: r.Description,
	}, nil
}

// ManualJournalRequest posts one of the manual catalog events. The source is
// always manual; the reference ID names the originating document.
type ManualJournalRequest struct {
	EventCode   string         `json:"event_code"`
	JournalDate string         `json:"journal_date"`
	ReferenceID string         `json:"reference_id"`
	Description string         `json:"description,omitempty"`
	Payload     map[string]any `json:"payload"`
}

// ToUseCaseInput converts to use case input.
func (r *ManualJournalRequest) ToUseCaseInput(tenantID, businessID string) (usecase.PostEventInput, error) {
	journalDate, err := ParseJournalDate(r.JournalDate)
	if err != nil {
		return usecase.PostEventInput{}, err
	}

	return usecase.PostEventInput{
		TenantID:    tenantID,
		BusinessID:  businessID,
		EventCode:   r.EventCode,
		JournalDate: journalDate,
		Payload:     r.Payload,
		Source:      domain.SourceRef{Type: domain.SourceManual, ID: r.ReferenceID},
		Description: r.Description,
	}, nil
}

// ReverseEntryRequest represents a request to reverse a posted entry.
type ReverseEntryRequest struct {
	JournalDate *string `json:"journal_date,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseEntryRequest) ToUseCaseInput(tenantID, businessID, entryID string) (usecase.ReverseEntryInput, error) {
	input := usecase.ReverseEntryInput{
		TenantID:    tenantID,
		BusinessID:  businessID,
		EntryID:     entryID,
		Description: r.Description,
	}

	if r.JournalDate != nil {
		journalDate, err := ParseJournalDate(*r.JournalDate)
		if err != nil {
			return usecase.ReverseEntryInput{}, err
		}
		input.JournalDate = &journalDate
	}

	return input, nil
}
