/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal record types from the external contract. Monetary fields
  travel as decimal strings; floats never cross the wire.

VALIDATION:
  Request types carry validator struct tags and are checked by the
  handler before any domain call. Statutory bounds (rate band, months
  range, date ordering) are NOT duplicated here - the formula layer owns
  them and its rejections map to 400s in the handlers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/gratuity"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SubmitBonusRequest carries one employee's facts for a bonus run.
type SubmitBonusRequest struct {
	EmployeeID    string `json:"employeeId" validate:"required"`
	BranchID      string `json:"branchId,omitempty"`
	FinancialYear string `json:"financialYear" validate:"required"`
	BasicSalary   string `json:"basicSalary" validate:"required"`
	BonusRate     string `json:"bonusRate,omitempty"`
	MonthsWorked  *int   `json:"monthsWorked,omitempty"`
}

// SubmitGratuityRequest carries one employee's facts for a gratuity
// accrual run or exit processing.
type SubmitGratuityRequest struct {
	EmployeeID           string  `json:"employeeId" validate:"required"`
	DateOfJoining        string  `json:"dateOfJoining" validate:"required,datetime=2006-01-02"`
	DateOfExit           *string `json:"dateOfExit,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LastDrawnBasicPlusDa string  `json:"lastDrawnBasicPlusDa" validate:"required"`
	Remarks              string  `json:"remarks,omitempty"`
}

// MarkPaidRequest stamps the payment date. Empty means "now".
type MarkPaidRequest struct {
	PaidOn string `json:"paidOn,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type BonusRecordDTO struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employeeId"`
	BranchID        string `json:"branchId,omitempty"`
	FinancialYear   string `json:"financialYear"`
	BasicSalary     string `json:"basicSalary"`
	IsEligible      bool   `json:"isEligible"`
	BonusRate       string `json:"bonusRate"`
	CalculationBase string `json:"calculationBase"`
	MonthsWorked    int    `json:"monthsWorked"`
	BonusAmount     string `json:"bonusAmount"`
	Status          string `json:"status"`
	PaidOn          string `json:"paidOn,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

type GratuityRecordDTO struct {
	ID                   string `json:"id"`
	EmployeeID           string `json:"employeeId"`
	DateOfJoining        string `json:"dateOfJoining"`
	DateOfExit           string `json:"dateOfExit,omitempty"`
	YearsOfService       string `json:"yearsOfService"`
	IsEligible           bool   `json:"isEligible"`
	LastDrawnBasicPlusDa string `json:"lastDrawnBasicPlusDa"`
	GratuityAmount       string `json:"gratuityAmount"`
	CappedAmount         string `json:"cappedAmount"`
	Status               string `json:"status"`
	PaidOn               string `json:"paidOn,omitempty"`
	Remarks              string `json:"remarks,omitempty"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// ConstraintDTO reports one uniqueness constraint's expected shape and
// whether the store currently enforces it.
type ConstraintDTO struct {
	Table    string   `json:"table"`
	Index    string   `json:"index"`
	Columns  []string `json:"columns"`
	Statuses []string `json:"activeStatuses"`
	Active   bool     `json:"active"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toBonusDTO(rec *bonus.Record) BonusRecordDTO {
	return BonusRecordDTO{
		ID:              string(rec.ID),
		EmployeeID:      string(rec.EmployeeID),
		BranchID:        string(rec.BranchID),
		FinancialYear:   string(rec.FinancialYear),
		BasicSalary:     rec.BasicSalary.String(),
		IsEligible:      rec.IsEligible,
		BonusRate:       rec.BonusRate.String(),
		CalculationBase: rec.CalculationBase.String(),
		MonthsWorked:    rec.MonthsWorked,
		BonusAmount:     rec.BonusAmount.String(),
		Status:          string(rec.Status),
		PaidOn:          formatOptional(rec.PaidOn),
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
}

func toGratuityDTO(rec *gratuity.Record) GratuityRecordDTO {
	return GratuityRecordDTO{
		ID:                   string(rec.ID),
		EmployeeID:           string(rec.EmployeeID),
		DateOfJoining:        rec.DateOfJoining.Format("2006-01-02"),
		DateOfExit:           formatOptionalDate(rec.DateOfExit),
		YearsOfService:       rec.YearsOfService.String(),
		IsEligible:           rec.IsEligible,
		LastDrawnBasicPlusDa: rec.LastDrawnBasicPlusDa.String(),
		GratuityAmount:       rec.GratuityAmount.String(),
		CappedAmount:         rec.CappedAmount.String(),
		Status:               string(rec.Status),
		PaidOn:               formatOptional(rec.PaidOn),
		Remarks:              rec.Remarks,
		CreatedAt:            rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            rec.UpdatedAt.Format(time.RFC3339),
	}
}

func toConstraintDTO(c statutory.Constraint, active bool) ConstraintDTO {
	return ConstraintDTO{
		Table:    c.Table,
		Index:    c.Index,
		Columns:  c.Columns,
		Statuses: c.Active.Strings(),
		Active:   active,
	}
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
