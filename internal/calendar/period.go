// Package calendar provides the billing period value type and the pure date
// arithmetic the engine is built on: working-day counts, month boundaries
// and payment-term due dates.
package calendar

import (
	"fmt"
	"time"
)

// Period is one calendar year-month billing unit, e.g. 2025-05. Periods are
// immutable values totally ordered by (year, month).
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a "YYYY-MM" label into a Period.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Compare orders periods chronologically: -1 if p is before other, 0 if
// equal, 1 if after.
func (p Period) Compare(other Period) int {
	a := p.Year*12 + int(p.Month)
	b := other.Year*12 + int(other.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (p Period) Before(other Period) bool { return p.Compare(other) < 0 }
func (p Period) After(other Period) bool  { return p.Compare(other) > 0 }

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// MonthsSince returns the number of whole months from start to p. Callers
// guarantee start is not after p.
func (p Period) MonthsSince(start Period) int {
	return (p.Year*12 + int(p.Month)) - (start.Year*12 + int(start.Month))
}

// Start returns the first day of the period as a UTC midnight date.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the calendar last day of the period. time.Date normalizes
// day 0 of the next month to the last day of this one.
func (p Period) End() time.Time {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether date falls inside the period's calendar month.
func (p Period) Contains(date time.Time) bool {
	return date.Year() == p.Year && date.Month() == p.Month
}

// PeriodOf returns the period the given date falls in.
func PeriodOf(date time.Time) Period {
	return Period{Year: date.Year(), Month: date.Month()}
}
