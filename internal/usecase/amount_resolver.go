package usecase

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mitraisp/mitrabooks/internal/domain"
)

// ResolveAmount extracts the line amount a rule posts from the event payload.
// The payload field named by the rule's AmountSource must be present and must
// resolve to a non-negative decimal. Amounts arriving as JSON are expected to
// be json.Number (the HTTP edge decodes with UseNumber), but the numeric Go
// types domain modules pass in-process are accepted too.
func ResolveAmount(rule *domain.AccountingRule, payload map[string]any) (decimal.Decimal, error) {
	raw, ok := payload[rule.AmountSource]
	if !ok {
		return decimal.Zero, &domain.MissingAmountSourceError{Source: rule.AmountSource}
	}

	amount, err := toDecimal(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	return amount, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return d, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Zero, domain.ErrInvalidAmount
	}
}
