package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExpensesForPeriod is returned when an expenses-mode invoice is
	// requested for a period with no recorded expenses.
	ErrNoExpensesForPeriod = errors.New("no expenses recorded for period")

	// ErrAggregationConflict is returned when two expense entries collide on
	// the identity key yet disagree on a field the key covers. The grouping
	// compares every identity field by value, so a conflict indicates a
	// corrupted expense ledger rather than a merge candidate; conflicting
	// entries are never silently merged.
	ErrAggregationConflict = errors.New("expense entries conflict on identity key")

	// ErrInvalidExpense is returned when a recorded expense has a
	// non-positive quantity or unit price.
	ErrInvalidExpense = errors.New("invalid expense entry")
)

// ResolveError wraps a failure of one resolution with the operation that
// failed.
type ResolveError struct {
	Op      string
	Err     error
	Details string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("engine: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("engine: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ResolveError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func resolveErr(op string, err error, details string) error {
	return &ResolveError{Op: op, Err: err, Details: details}
}
