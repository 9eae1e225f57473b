package engine

import (
	"sort"

	"invo/internal/calendar"
	"invo/pkg/models"
)

// ExpenseLedger holds the recorded expenses keyed by the billing period they
// belong to. Recording is a pure data mutation with no numbering side
// effects; identical expenses merge by summing quantity.
type ExpenseLedger struct {
	byPeriod map[calendar.Period][]models.ExpenseItem
}

// NewExpenseLedger builds a ledger from persisted per-period items. Items
// already on disk are merged through the same identity rule as new
// recordings, so a hand-edited file with split rows heals on load.
func NewExpenseLedger(byPeriod map[calendar.Period][]models.ExpenseItem) *ExpenseLedger {
	l := &ExpenseLedger{byPeriod: map[calendar.Period][]models.ExpenseItem{}}
	for period, items := range byPeriod {
		for _, item := range items {
			l.byPeriod[period] = mergeExpense(l.byPeriod[period], item)
		}
	}
	return l
}

// Record inserts one expense for the target period, merging it into an
// existing row when every field except quantity matches.
func (l *ExpenseLedger) Record(period calendar.Period, item models.ExpenseItem) error {
	if item.Quantity.Sign() <= 0 || item.UnitPrice.Sign() < 0 {
		return resolveErr("Record", ErrInvalidExpense, item.Name)
	}
	l.byPeriod[period] = mergeExpense(l.byPeriod[period], item)
	return nil
}

// For returns the expenses recorded for the period, in recording order.
func (l *ExpenseLedger) For(period calendar.Period) []models.ExpenseItem {
	return l.byPeriod[period]
}

// Periods returns the periods with recorded expenses in chronological
// order.
func (l *ExpenseLedger) Periods() []calendar.Period {
	periods := make([]calendar.Period, 0, len(l.byPeriod))
	for p := range l.byPeriod {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// Items returns the full per-period contents for persisting.
func (l *ExpenseLedger) Items() map[calendar.Period][]models.ExpenseItem {
	out := make(map[calendar.Period][]models.ExpenseItem, len(l.byPeriod))
	for period, items := range l.byPeriod {
		out[period] = append([]models.ExpenseItem(nil), items...)
	}
	return out
}

// mergeExpense appends item to items, summing quantities into the first row
// that is the same expense. First-seen order is preserved either way.
func mergeExpense(items []models.ExpenseItem, item models.ExpenseItem) []models.ExpenseItem {
	for i := range items {
		if items[i].SameExpense(item) {
			items[i].Quantity = items[i].Quantity.Add(item.Quantity)
			return items
		}
	}
	return append(items, item)
}
