/*
errors.go - Centralized error types for the payroll record engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages (bonus, gratuity) wrap these errors with additional
  context.

ERROR CATEGORIES:
  1. Validation errors - Rejected inputs, no store write happens
  2. Lifecycle errors - Refused status transitions, no state change
  3. Store errors - Constraint races and missing records
  4. Maintenance errors - Reconciler refusals

USAGE:
  Callers branch with errors.Is / errors.As:

    if errors.Is(err, statutory.ErrConstraintViolation) {
        // re-read and retry
    }

SEE ALSO:
  - bonus/service.go, gratuity/service.go: Wrap these with domain context
  - store/sqlite/sqlite.go: Maps database errors onto these
*/
package statutory

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRate is returned when a bonus rate falls outside the
	// statutory band [8.33, 20.0].
	ErrInvalidRate = errors.New("bonus rate outside statutory band")

	// ErrInvalidMonths is returned when months worked falls outside [0, 12].
	ErrInvalidMonths = errors.New("months worked outside [0, 12]")

	// ErrInvalidDateRange is returned when a reference date precedes the
	// date of joining.
	ErrInvalidDateRange = errors.New("reference date before date of joining")

	// ErrInvalidTransition is returned when a lifecycle transition is not
	// permitted from the record's current status. No state change occurs.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConstraintViolation is returned when a concurrent write races on
	// the active-uniqueness constraint. Recoverable: re-read and retry.
	ErrConstraintViolation = errors.New("active record constraint violation")

	// ErrRecordNotFound is returned when a referenced record doesn't exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrReconciliationMismatch is returned when the reconciler finds a
	// unique constraint in a shape it does not recognize. It halts rather
	// than guess and drop.
	ErrReconciliationMismatch = errors.New("unrecognized constraint shape")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransitionError reports a refused lifecycle transition.
type TransitionError struct {
	RecordID RecordID
	From     Status
	To       Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition record %s from %s to %s", e.RecordID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PaidBeforeCreatedError reports a paidOn timestamp earlier than the
// record's creation time.
type PaidBeforeCreatedError struct {
	RecordID  RecordID
	PaidOn    time.Time
	CreatedAt time.Time
}

func (e *PaidBeforeCreatedError) Error() string {
	return fmt.Sprintf("paidOn %s precedes creation of record %s at %s",
		e.PaidOn.Format(time.RFC3339), e.RecordID, e.CreatedAt.Format(time.RFC3339))
}

func (e *PaidBeforeCreatedError) Unwrap() error { return ErrInvalidTransition }

// ConstraintMismatch describes the constraint the reconciler refused to touch.
type ConstraintMismatch struct {
	Table string
	Name  string
	SQL   string
}

func (e *ConstraintMismatch) Error() string {
	return fmt.Sprintf("constraint %s on %s has unrecognized shape: %s", e.Name, e.Table, e.SQL)
}

func (e *ConstraintMismatch) Unwrap() error { return ErrReconciliationMismatch }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrInvalidMonths) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
