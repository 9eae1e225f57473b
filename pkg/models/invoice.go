package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one priced row of a resolved invoice. UnitPrice, Quantity and
// TotalCost are in the item's original currency; ConvertedTotal is TotalCost
// expressed in the invoice's settlement currency, rounded to that currency's
// minor unit.
type LineItem struct {
	Name           string
	Date           time.Time // transaction date (expenses) or period end (services)
	UnitPrice      decimal.Decimal
	Currency       string
	Quantity       decimal.Decimal
	TotalCost      decimal.Decimal
	ConvertedTotal decimal.Decimal
	// ApproximateRate marks a total converted with a nearest-prior-date
	// fallback rate rather than a rate for the exact transaction date.
	ApproximateRate bool
}

// ResolvedInvoice is the fully computed content of one invoice: everything
// the rendering layer needs, nothing it has to derive.
type ResolvedInvoice struct {
	Number             int
	InvoiceDate        time.Time
	DueDate            time.Time
	WorkingDays        int
	LineItems          []LineItem
	GrandTotal         decimal.Decimal
	SettlementCurrency string
}
