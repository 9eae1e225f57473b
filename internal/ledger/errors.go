package ledger

import (
	"errors"
	"fmt"

	"invo/internal/calendar"
)

var (
	// ErrInvalidPeriod is returned when a number is requested for a period
	// that is marked off or lies before the numbering anchor.
	ErrInvalidPeriod = errors.New("period is not eligible for invoicing")

	// ErrDuplicatePeriod is returned when a period is marked off twice.
	ErrDuplicatePeriod = errors.New("period is already marked off")
)

// PeriodError wraps a ledger error with the period it concerns.
type PeriodError struct {
	Op     string
	Period calendar.Period
	Err    error
}

// Error implements the error interface.
func (e *PeriodError) Error() string {
	return fmt.Sprintf("ledger: %s failed for %s: %v", e.Op, e.Period, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PeriodError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *PeriodError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func periodErr(op string, period calendar.Period, err error) error {
	return &PeriodError{Op: op, Period: period, Err: err}
}
