package gratuity

import (
	"context"
	"time"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STORE - Persistence contract for gratuity records
// =============================================================================

// Store persists gratuity records under the active-uniqueness discipline:
// at most one record whose status is in ActiveStatuses may exist per
// employee. Superseded history rows coexist with the active one.
type Store interface {
	// UpsertActive atomically inserts rec as the employee's active
	// record, or updates the existing active record's fact and derived
	// fields in place (CreatedAt and PaidOn are preserved on update; a
	// status supplied on rec only applies on insert, updates go through
	// Transition). Fails with statutory.ErrConstraintViolation when a
	// concurrent call races on the same employee.
	UpsertActive(ctx context.Context, rec *Record) (*Record, error)

	// FindActive returns the employee's active record, or nil if none.
	FindActive(ctx context.Context, employeeID statutory.EmployeeID) (*Record, error)

	// Get returns the record by ID regardless of status.
	// Fails with statutory.ErrRecordNotFound if absent.
	Get(ctx context.Context, id statutory.RecordID) (*Record, error)

	// ListByEmployee returns every record for the employee, newest
	// first, including superseded history rows.
	ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]Record, error)

	// Transition performs a compare-and-set status change. paidOn is
	// persisted only when to is StatusPaid.
	Transition(ctx context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error

	// ConstraintActive reports whether the status-scoped uniqueness
	// constraint is in force.
	ConstraintActive(ctx context.Context) (bool, error)
}
