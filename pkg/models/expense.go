package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseItem is one recorded out-of-pocket expense in the currency it was
// paid in. Two items are the same expense if every field except Quantity
// matches; recording the same expense twice sums the quantities.
type ExpenseItem struct {
	Name      string          `validate:"required"`
	UnitPrice decimal.Decimal `validate:"required"`
	Currency  string          `validate:"required,iso4217"`
	Quantity  decimal.Decimal `validate:"required"`
	Date      time.Time       `validate:"required"`
}

// SameExpense reports whether other is the same expense as e, i.e. every
// field except Quantity matches. Decimal comparison is by value, so a unit
// price of 11 matches 11.00.
func (e ExpenseItem) SameExpense(other ExpenseItem) bool {
	return e.Name == other.Name &&
		e.Currency == other.Currency &&
		e.UnitPrice.Equal(other.UnitPrice) &&
		e.Date.Equal(other.Date)
}
