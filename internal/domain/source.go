package domain

import "strings"

// SourceType enumerates the domain records a journal entry can originate from.
type SourceType string

const (
	SourceVoucherSale          SourceType = "voucher_sale"
	SourcePurchase             SourceType = "purchase"
	SourceReceivableCollection SourceType = "receivable_collection"
	SourceManual               SourceType = "manual"
	SourceReversal             SourceType = "reversal"
)

// ParseSourceType validates a source type string.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceVoucherSale:
		return SourceVoucherSale, nil
	case SourcePurchase:
		return SourcePurchase, nil
	case SourceReceivableCollection:
		return SourceReceivableCollection, nil
	case SourceManual:
		return SourceManual, nil
	case SourceReversal:
		return SourceReversal, nil
	default:
		return "", ErrInvalidSource
	}
}

// SourceRef points a journal entry at the domain record that produced it.
type SourceRef struct {
	Type SourceType
	ID   string
}

// Well-known event codes fired by the domain modules.
const (
	EventVoucherSold         = "EVT_VOUCHER_SOLD"
	EventPurchaseRecorded    = "EVT_PURCHASE_RECORDED"
	EventReceivableCollected = "EVT_RECEIVABLE_COLLECTED"

	// Manual journal catalog, exposed through the manual-journals endpoint.
	EventEquityInjected  = "EVT_EQUITY_INJECTED"
	EventOwnerWithdrawal = "EVT_OWNER_WITHDRAWAL"
	EventTaxPaid         = "EVT_TAX_PAID"
)

// CollectorField is the payload key that must be present when a matched rule
// has CollectorRequired set.
const CollectorField = "collector_user_id"

var manualEventCodes = map[string]bool{
	EventEquityInjected:  true,
	EventOwnerWithdrawal: true,
	EventTaxPaid:         true,
}

// IsManualEventCode reports whether the code belongs to the manual catalog.
func IsManualEventCode(code string) bool {
	return manualEventCodes[code]
}
