package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells which side of the journal a rule posts to.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case DirectionDebit:
		return DirectionDebit, nil
	case DirectionCredit:
		return DirectionCredit, nil
	default:
		return "", ErrInvalidRule
	}
}

// ConditionTerm is one field/value equality requirement.
type ConditionTerm struct {
	Field  string
	Equals any
}

// Condition is an AND-combined list of equality terms matched against an
// event payload. An empty condition matches every payload.
type Condition []ConditionTerm

// Matches reports whether every term is present in the payload with an equal
// value. Equality is strict: a JSON number never equals a string, but numbers
// compare numerically across their json.Number/int/decimal representations.
func (c Condition) Matches(payload map[string]any) bool {
	for _, term := range c {
		got, ok := payload[term.Field]
		if !ok {
			return false
		}
		if !equalValues(term.Equals, got) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the condition as a flat JSON object, the shape rule
// rows are seeded and stored in.
func (c Condition) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(c))
	for _, term := range c {
		obj[term.Field] = term.Equals
	}
	return json.Marshal(obj)
}

// UnmarshalJSON parses a flat JSON object into terms sorted by field name so
// the in-memory order is stable regardless of storage order.
func (c *Condition) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	obj := map[string]any{}
	if err := dec.Decode(&obj); err != nil {
		return err
	}

	terms := make(Condition, 0, len(obj))
	for field, value := range obj {
		terms = append(terms, ConditionTerm{Field: field, Equals: value})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Field < terms[j].Field })

	*c = terms
	return nil
}

func equalValues(want, got any) bool {
	if wn, ok := asNumber(want); ok {
		gn, ok := asNumber(got)
		return ok && wn.Equal(gn)
	}

	switch w := want.(type) {
	case string:
		g, ok := got.(string)
		return ok && w == g
	case bool:
		g, ok := got.(bool)
		return ok && w == g
	case nil:
		return got == nil
	}

	return false
}

func asNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	default:
		return decimal.Zero, false
	}
}

// AccountingRule maps one business event variant to one journal line. Rules
// are configuration: created per business, toggled via Active, never mutated
// by postings.
type AccountingRule struct {
	ID                string
	TenantID          string
	BusinessID        string
	EventCode         string
	Name              string
	Priority          int
	Condition         Condition
	AccountID         string
	Direction         Direction
	AmountSource      string
	CollectorRequired bool
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Matches reports whether the rule applies to the payload.
func (r *AccountingRule) Matches(payload map[string]any) bool {
	return r.Condition.Matches(payload)
}

// Validate checks the structural invariants of a rule row.
func (r *AccountingRule) Validate() error {
	if r.TenantID == "" || r.BusinessID == "" {
		return ErrInvalidRule
	}
	if strings.TrimSpace(r.EventCode) == "" || strings.TrimSpace(r.Name) == "" {
		return ErrInvalidRule
	}
	if r.AccountID == "" || strings.TrimSpace(r.AmountSource) == "" {
		return ErrInvalidRule
	}
	if _, err := ParseDirection(string(r.Direction)); err != nil {
		return err
	}
	return nil
}
