package calendar

import (
	"fmt"
	"time"
)

// DateFormat is the on-disk and wire format for dates.
const DateFormat = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a UTC midnight date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Date constructs a UTC midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Weekend is the set of weekdays that do not count as working days.
type Weekend map[time.Weekday]bool

// DefaultWeekend is Saturday and Sunday.
func DefaultWeekend() Weekend {
	return Weekend{time.Saturday: true, time.Sunday: true}
}

// WeekendFrom builds a Weekend from day names ("saturday", "sunday", ...).
func WeekendFrom(names []string) (Weekend, error) {
	byName := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	w := Weekend{}
	for _, name := range names {
		day, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		w[day] = true
	}
	return w, nil
}

// WorkingDays counts the days of the period that are neither weekend days
// nor listed in offDays. Off-days outside the period are ignored. A fully
// off month yields zero, which is a valid result.
func WorkingDays(p Period, weekend Weekend, offDays []time.Time) int {
	off := make(map[string]bool, len(offDays))
	for _, d := range offDays {
		if p.Contains(d) {
			off[d.Format(DateFormat)] = true
		}
	}
	count := 0
	for day := p.Start(); !day.After(p.End()); day = day.AddDate(0, 0, 1) {
		if weekend[day.Weekday()] {
			continue
		}
		if off[day.Format(DateFormat)] {
			continue
		}
		count++
	}
	return count
}

// LastBusinessDay returns the last day of the period that is not a weekend
// day.
func LastBusinessDay(p Period, weekend Weekend) time.Time {
	day := p.End()
	for weekend[day.Weekday()] && day.After(p.Start()) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// DueDate applies a net-days payment term to an invoice date in calendar
// days.
func DueDate(invoiceDate time.Time, netDays int) time.Time {
	return invoiceDate.AddDate(0, 0, netDays)
}
