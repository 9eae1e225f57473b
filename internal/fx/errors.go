package fx

import (
	"errors"
	"fmt"
	"time"

	"invo/internal/calendar"
)

var (
	// ErrRateUnavailable is returned when neither the cache nor the remote
	// provider can supply a rate for the requested date and currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrInvalidDate is returned when a rate is requested for a future date.
	ErrInvalidDate = errors.New("cannot fetch exchange rate for a future date")

	// ErrUnknownCurrency is returned when a currency code is not a known
	// ISO 4217 unit.
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// RateError wraps a rate lookup failure with the key that failed.
type RateError struct {
	Op   string
	Date time.Time
	From string
	To   string
	Err  error
}

// Error implements the error interface.
func (e *RateError) Error() string {
	return fmt.Sprintf("fx: %s failed for %s/%s@%s: %v",
		e.Op, e.From, e.To, e.Date.Format(calendar.DateFormat), e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RateError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *RateError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func rateErr(op string, date time.Time, from, to string, err error) error {
	return &RateError{Op: op, Date: date, From: from, To: to, Err: err}
}
