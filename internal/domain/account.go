package domain

import (
	"strings"
	"time"
)

// AccountType classifies a node in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// ParseAccountType validates and normalizes an account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(strings.ToLower(strings.TrimSpace(s))) {
	case AccountTypeAsset:
		return AccountTypeAsset, nil
	case AccountTypeLiability:
		return AccountTypeLiability, nil
	case AccountTypeEquity:
		return AccountTypeEquity, nil
	case AccountTypeRevenue:
		return AccountTypeRevenue, nil
	case AccountTypeExpense:
		return AccountTypeExpense, nil
	default:
		return "", ErrInvalidAccount
	}
}

// Account is one node in a business's chart of accounts. Root accounts have a
// nil ParentID. The code is unique per business.
type Account struct {
	ID         string
	TenantID   string
	BusinessID string
	Code       string
	Name       string
	Type       AccountType
	ParentID   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the structural invariants that do not need repository access.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Code) == "" || strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAccount
	}
	if a.BusinessID == "" || a.TenantID == "" {
		return ErrInvalidAccount
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	return nil
}

// IsRoot reports whether the account sits at the top of the hierarchy.
func (a *Account) IsRoot() bool {
	return a.ParentID == nil
}
