// Package bonus implements annual statutory bonus records under the
// Payment of Bonus Act. It layers the shared statutory core with the
// bonus-specific formula, record shape, and lifecycle.
package bonus

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STATUSES
// =============================================================================

const (
	StatusPending  statutory.Status = "PENDING"
	StatusApproved statutory.Status = "APPROVED"
	StatusPaid     statutory.Status = "PAID"
)

// ActiveStatuses is the configured set of statuses subject to the
// one-record-per-(employee, financial year) constraint. PAID is included:
// a paid period stays singular, only SUPERSEDED rows fall out of scope.
var ActiveStatuses = statutory.StatusSet{StatusPending, StatusApproved, StatusPaid}

// Lifecycle is the forward-only transition table. Supersede is a separate
// administrative demotion and deliberately absent here.
var Lifecycle = statutory.Transitions{
	StatusPending:  {StatusApproved},
	StatusApproved: {StatusPaid},
}

// =============================================================================
// KEY AND RECORD
// =============================================================================

// Key identifies the one active bonus record per payroll period.
type Key struct {
	EmployeeID    statutory.EmployeeID
	FinancialYear statutory.FinancialYear
}

// Record is one bonus computation for (employee, financial year).
// Derived fields (IsEligible, CalculationBase, BonusAmount) are always
// recomputed from the facts, never accepted from callers.
type Record struct {
	ID            statutory.RecordID
	EmployeeID    statutory.EmployeeID
	BranchID      statutory.BranchID // informational, may be empty
	FinancialYear statutory.FinancialYear

	BasicSalary     statutory.Money
	IsEligible      bool
	BonusRate       decimal.Decimal
	CalculationBase statutory.Money
	MonthsWorked    int
	BonusAmount     statutory.Money

	Status    statutory.Status
	PaidOn    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Record) Key() Key {
	return Key{EmployeeID: r.EmployeeID, FinancialYear: r.FinancialYear}
}

// SameFacts reports whether the record already embodies the given facts.
// Used by submit to keep re-runs idempotent.
func (r *Record) SameFacts(f Facts) bool {
	return r.BasicSalary.Equal(f.BasicSalary) &&
		r.BonusRate.Equal(f.BonusRate) &&
		r.MonthsWorked == f.MonthsWorked &&
		r.BranchID == f.BranchID
}

// Facts are the inputs a payroll run supplies for one employee.
type Facts struct {
	EmployeeID    statutory.EmployeeID
	BranchID      statutory.BranchID
	FinancialYear statutory.FinancialYear
	BasicSalary   statutory.Money
	BonusRate     decimal.Decimal
	MonthsWorked  int
}
