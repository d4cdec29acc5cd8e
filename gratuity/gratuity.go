/*
gratuity.go - Payment of Gratuity Act formula

PURPOSE:
  Pure computation of gratuity entitlement. No I/O, deterministic.

THE FORMULA:
  yearsOfService = reference date - date of joining, fractional
  eligible       = yearsOfService >= 5
  gratuity       = lastDrawnBasicPlusDa x 15 x yearsOfService / 26
  capped         = min(gratuity, 20,00,000)

  An ineligible employee accrues zero; the cap is the statutory ceiling
  on the payable amount, not on the recorded formula result.

PRECISION:
  15 x years multiplies before the single division by 26, then rounds to
  paise: 30000 basic at exactly 6 years is 103846.15.

SEE ALSO:
  - statutory/fiscal.go: YearsOfService
  - service.go: Lifecycle around the computed record
*/
package gratuity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STATUTORY CONSTANTS
// =============================================================================

var (
	// EligibilityYears: minimum continuous service for entitlement.
	EligibilityYears = decimal.NewFromInt(5)

	// PayableCeiling: statutory cap on the gratuity payable.
	PayableCeiling = statutory.RupeesFromInt(2000000)
)

// =============================================================================
// COMPUTATION
// =============================================================================

// Computation is the derived portion of a gratuity record.
type Computation struct {
	YearsOfService decimal.Decimal
	IsEligible     bool
	GratuityAmount statutory.Money
	CappedAmount   statutory.Money
}

// Compute derives gratuity entitlement as of referenceDate. Fails with
// statutory.ErrInvalidDateRange when referenceDate precedes joining.
func Compute(dateOfJoining, referenceDate time.Time, lastDrawnBasicPlusDa statutory.Money) (Computation, error) {
	years, err := statutory.YearsOfService(dateOfJoining, referenceDate)
	if err != nil {
		return Computation{}, err
	}

	c := Computation{
		YearsOfService: years,
		IsEligible:     years.GreaterThanOrEqual(EligibilityYears),
		GratuityAmount: statutory.ZeroRupees(),
		CappedAmount:   statutory.ZeroRupees(),
	}
	if !c.IsEligible {
		return c, nil
	}

	// pay x 15 x years / 26, division last
	c.GratuityAmount = lastDrawnBasicPlusDa.
		Mul(decimal.NewFromInt(15)).
		Mul(years).
		Div(decimal.NewFromInt(26)).
		RoundPaise()
	c.CappedAmount = c.GratuityAmount.Cap(PayableCeiling)
	return c, nil
}
