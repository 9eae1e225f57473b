package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"invo/internal/fx"
	"invo/pkg/models"
)

// aggregateExpenses groups input items by identity (name, unit price,
// currency, date), summing quantities. Output order is the first-seen order
// of each group, and every input quantity ends up in exactly one row.
func aggregateExpenses(items []models.ExpenseItem) []models.ExpenseItem {
	var grouped []models.ExpenseItem
	for _, item := range items {
		grouped = mergeExpense(grouped, item)
	}
	return grouped
}

// priceExpense turns one aggregated expense into a priced line item,
// converting its total into the settlement currency at the rate of its
// transaction date.
func priceExpense(ctx context.Context, conv *fx.Converter, item models.ExpenseItem) (models.LineItem, error) {
	total := item.UnitPrice.Mul(item.Quantity)
	converted, quote, err := conv.Convert(ctx, total, item.Currency, item.Date)
	if err != nil {
		return models.LineItem{}, err
	}
	return models.LineItem{
		Name:            item.Name,
		Date:            item.Date,
		UnitPrice:       item.UnitPrice,
		Currency:        item.Currency,
		Quantity:        item.Quantity,
		TotalCost:       total,
		ConvertedTotal:  converted,
		ApproximateRate: quote.Approximate,
	}, nil
}

// grandTotal sums the independently rounded converted totals. There is no
// separate convert-then-sum-then-round path: the displayed total always
// reconciles to the cent against the displayed rows.
func grandTotal(lines []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.ConvertedTotal)
	}
	return total
}
