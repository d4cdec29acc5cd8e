/*
status.go - Record status machinery

PURPOSE:
  Statuses drive two separate mechanisms and this file keeps them from
  being conflated:

  1. The LIFECYCLE: which transitions a record may take (forward-only,
     defined per domain as a Transitions table).
  2. The UNIQUENESS SCOPE: which statuses count as "active" for the
     one-active-record-per-key constraint (a StatusSet, configured per
     entity, never hardcoded into the store).

ACTIVE STATUS SETS:
  The per-key uniqueness invariant applies only to records whose status
  is in the configured active set. Superseded records fall outside the
  set, so a corrected re-run never collides with history. The set is
  plain configuration: changing it reshapes the store's partial unique
  index on the next reconciler run, with no migration of record rows.

SEE ALSO:
  - bonus/types.go, gratuity/types.go: Concrete statuses and sets
  - reconcile/reconcile.go: Derives the index filter from a StatusSet
*/
package statutory

import "strings"

// =============================================================================
// STATUS
// =============================================================================

type Status string

// StatusSuperseded is the terminal non-active status shared by all record
// kinds. A superseded record is retained for audit and excluded from the
// per-key uniqueness constraint.
const StatusSuperseded Status = "SUPERSEDED"

// =============================================================================
// STATUS SET - Configured set of "active" statuses per entity
// =============================================================================

type StatusSet []Status

func (s StatusSet) Contains(status Status) bool {
	for _, st := range s {
		if st == status {
			return true
		}
	}
	return false
}

// Equal compares two sets element-wise, order-sensitive. The reconciler
// compares the configured set against the persisted index filter, and the
// filter preserves declaration order.
func (s StatusSet) Equal(other StatusSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Strings returns the statuses as plain strings, for SQL literal lists.
func (s StatusSet) Strings() []string {
	out := make([]string, len(s))
	for i, st := range s {
		out[i] = string(st)
	}
	return out
}

func (s StatusSet) String() string {
	return strings.Join(s.Strings(), ",")
}

// =============================================================================
// TRANSITIONS - Forward-only lifecycle table
// =============================================================================

// Transitions maps a status to the statuses reachable from it. Absent
// entries are terminal. Domain packages declare their own table; the
// lifecycle services consult it via Allowed.
type Transitions map[Status][]Status

func (t Transitions) Allowed(from, to Status) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}
