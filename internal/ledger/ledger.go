// Package ledger maintains the invoice numbering state: the number offset
// anchored at one period, and the record of periods marked off. Number
// computation is a pure read; only Commit and MarkOff mutate state.
package ledger

import (
	"sort"

	"invo/internal/calendar"
)

// State is the persisted numbering state. The invoice number of Anchor is
// Offset; each later eligible period increments by one, and off periods are
// excluded from the count so the delivered sequence stays gap-free.
type State struct {
	Offset     int
	Anchor     calendar.Period
	PeriodsOff []calendar.Period
}

// Ledger resolves invoice numbers over a State. It is the sole mutator of
// numbering state within one invocation.
type Ledger struct {
	state State
	off   map[calendar.Period]bool
}

// New builds a Ledger over the given state. Off periods are deduplicated
// defensively; persisted state never contains duplicates.
func New(state State) *Ledger {
	off := make(map[calendar.Period]bool, len(state.PeriodsOff))
	for _, p := range state.PeriodsOff {
		off[p] = true
	}
	return &Ledger{state: state, off: off}
}

// State returns a snapshot of the current numbering state with off periods
// in chronological order, suitable for persisting.
func (l *Ledger) State() State {
	periods := make([]calendar.Period, 0, len(l.off))
	for p := range l.off {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return State{Offset: l.state.Offset, Anchor: l.state.Anchor, PeriodsOff: periods}
}

// IsOff reports whether the period is marked off.
func (l *Ledger) IsOff(period calendar.Period) bool {
	return l.off[period]
}

// NumberFor resolves the invoice number for the target period: the offset
// plus the count of eligible (not off) periods after the anchor up to and
// including the target. Reading a number never mutates the ledger, so
// repeated calls for the same period always agree.
//
// An expense invoice is numbered one above the service invoice of the same
// period, keeping the two distinct and ordered when both are issued.
func (l *Ledger) NumberFor(period calendar.Period, expenses bool) (int, error) {
	const op = "NumberFor"
	if l.off[period] {
		return 0, periodErr(op, period, ErrInvalidPeriod)
	}
	if period.Before(l.state.Anchor) {
		return 0, periodErr(op, period, ErrInvalidPeriod)
	}
	elapsed := period.MonthsSince(l.state.Anchor)
	skipped := 0
	for p := range l.off {
		if p.After(l.state.Anchor) && !p.After(period) {
			skipped++
		}
	}
	number := l.state.Offset + elapsed - skipped
	if expenses {
		number++
	}
	return number, nil
}

// MarkOff records a period as off. Marking a period twice, or marking the
// anchor period itself, fails; the anchor must stay eligible for the count
// in NumberFor to stay well defined.
func (l *Ledger) MarkOff(period calendar.Period) error {
	const op = "MarkOff"
	if l.off[period] {
		return periodErr(op, period, ErrDuplicatePeriod)
	}
	if period == l.state.Anchor {
		return periodErr(op, period, ErrInvalidPeriod)
	}
	l.off[period] = true
	return nil
}

// Commit advances the numbering anchor to the given period after an invoice
// for it has been generated, re-basing the offset to that period's service
// number. Committing the same period again is a no-op, so a retry after a
// failed persist is safe.
func (l *Ledger) Commit(period calendar.Period) error {
	number, err := l.NumberFor(period, false)
	if err != nil {
		return err
	}
	l.state.Offset = number
	l.state.Anchor = period
	return nil
}
