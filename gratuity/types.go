// Package gratuity implements gratuity records under the Payment of
// Gratuity Act. Unlike bonus, gratuity is cumulative over an employment
// spell: one record per employee, not one per period.
package gratuity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STATUSES
// =============================================================================

const (
	StatusAccruing statutory.Status = "ACCRUING"
	StatusEligible statutory.Status = "ELIGIBLE"
	StatusPaid     statutory.Status = "PAID"
)

// ActiveStatuses is the configured set subject to the one-record-per-
// employee constraint. SUPERSEDED history rows fall outside it.
var ActiveStatuses = statutory.StatusSet{StatusAccruing, StatusEligible, StatusPaid}

// Lifecycle is the forward-only transition table. ACCRUING -> ELIGIBLE is
// taken by recomputation when length of service crosses five years, never
// by a direct caller request.
var Lifecycle = statutory.Transitions{
	StatusAccruing: {StatusEligible},
	StatusEligible: {StatusPaid},
}

// =============================================================================
// RECORD
// =============================================================================

// Record is the single gratuity record for an employment spell.
type Record struct {
	ID         statutory.RecordID
	EmployeeID statutory.EmployeeID

	DateOfJoining time.Time
	DateOfExit    *time.Time // presence signals separation

	YearsOfService       decimal.Decimal
	IsEligible           bool
	LastDrawnBasicPlusDa statutory.Money
	GratuityAmount       statutory.Money
	CappedAmount         statutory.Money

	Status    statutory.Status
	PaidOn    *time.Time
	Remarks   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SameFacts reports whether the record already embodies the given facts.
func (r *Record) SameFacts(f Facts) bool {
	if !r.DateOfJoining.Equal(f.DateOfJoining) {
		return false
	}
	if (r.DateOfExit == nil) != (f.DateOfExit == nil) {
		return false
	}
	if r.DateOfExit != nil && !r.DateOfExit.Equal(*f.DateOfExit) {
		return false
	}
	return r.LastDrawnBasicPlusDa.Equal(f.LastDrawnBasicPlusDa)
}

// Facts are the inputs an accrual run or exit processing supplies.
type Facts struct {
	EmployeeID           statutory.EmployeeID
	DateOfJoining        time.Time
	DateOfExit           *time.Time
	LastDrawnBasicPlusDa statutory.Money
	Remarks              string
}
