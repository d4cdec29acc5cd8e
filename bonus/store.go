package bonus

import (
	"context"
	"time"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STORE - Persistence contract for bonus records
// =============================================================================

// Store persists bonus records under the active-uniqueness discipline:
// at most one record whose status is in ActiveStatuses may exist per Key.
// Historical (superseded) rows coexist with the active one.
type Store interface {
	// UpsertActive atomically inserts rec as the active record for its
	// key, or updates the existing active record's fact and derived
	// fields in place (status, CreatedAt and PaidOn are preserved on
	// update). Returns the surviving record. Fails with
	// statutory.ErrConstraintViolation when a concurrent call races on
	// the same key; callers re-read and retry.
	UpsertActive(ctx context.Context, rec *Record) (*Record, error)

	// FindActive returns the active record for key, or nil if none.
	FindActive(ctx context.Context, key Key) (*Record, error)

	// Get returns the record by ID regardless of status.
	// Fails with statutory.ErrRecordNotFound if absent.
	Get(ctx context.Context, id statutory.RecordID) (*Record, error)

	// ListByEmployee returns every record for the employee, newest
	// first, including superseded history rows.
	ListByEmployee(ctx context.Context, employeeID statutory.EmployeeID) ([]Record, error)

	// Transition performs a compare-and-set status change. paidOn is
	// persisted only when to is StatusPaid. Fails with
	// statutory.ErrRecordNotFound or *statutory.TransitionError when
	// the record is absent or no longer in status from.
	Transition(ctx context.Context, id statutory.RecordID, from, to statutory.Status, paidOn *time.Time) error

	// ConstraintActive reports whether the status-scoped uniqueness
	// constraint is in force. Correctness of concurrent submits depends
	// on it; callers may surface this operationally.
	ConstraintActive(ctx context.Context) (bool, error)
}
