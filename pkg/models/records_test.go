package models_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invo/pkg/models"
)

func TestParsePaymentTerms(t *testing.T) {
	t.Run("accepted forms", func(t *testing.T) {
		cases := []struct {
			in   string
			days int
		}{
			{"Net 30", 30},
			{"net 30", 30},
			{"NET 14", 14},
			{"30", 30},
			{"net30", 30},
			{" Net 0 ", 0},
		}
		for _, tc := range cases {
			terms, err := models.ParsePaymentTerms(tc.in)
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.days, terms.NetDays, "input %q", tc.in)
		}
	})

	t.Run("rejected forms", func(t *testing.T) {
		for _, in := range []string{"", "Net", "Net thirty", "Net -5", "Net 30 days", "-5"} {
			_, err := models.ParsePaymentTerms(in)
			assert.Error(t, err, "input %q", in)
		}
	})

	t.Run("round trips through String", func(t *testing.T) {
		terms, err := models.ParsePaymentTerms("Net 30")
		require.NoError(t, err)
		assert.Equal(t, "Net 30", terms.String())

		again, err := models.ParsePaymentTerms(terms.String())
		require.NoError(t, err)
		assert.Equal(t, terms, again)
	})
}

func TestSameExpense(t *testing.T) {
	base := models.ExpenseItem{
		Name:      "Lunch",
		UnitPrice: decimal.RequireFromString("25.50"),
		Currency:  "GBP",
		Quantity:  decimal.RequireFromString("2"),
		Date:      time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
	}

	t.Run("quantity does not enter the identity", func(t *testing.T) {
		other := base
		other.Quantity = decimal.RequireFromString("7")
		assert.True(t, base.SameExpense(other))
	})

	t.Run("unit price compares by value", func(t *testing.T) {
		other := base
		other.UnitPrice = decimal.RequireFromString("25.5")
		assert.True(t, base.SameExpense(other))
	})

	t.Run("each identity field separates", func(t *testing.T) {
		other := base
		other.Name = "Dinner"
		assert.False(t, base.SameExpense(other))

		other = base
		other.Currency = "USD"
		assert.False(t, base.SameExpense(other))

		other = base
		other.UnitPrice = decimal.RequireFromString("26")
		assert.False(t, base.SameExpense(other))

		other = base
		other.Date = base.Date.AddDate(0, 0, 1)
		assert.False(t, base.SameExpense(other))
	})
}
