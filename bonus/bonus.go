/*
bonus.go - Payment of Bonus Act formula

PURPOSE:
  Pure computation of annual bonus entitlement. No I/O, deterministic:
  the same facts always produce the same amounts, which is what makes
  payroll re-runs idempotent.

THE FORMULA:
  eligible        = basic salary <= 21,000
  calculationBase = min(basic salary, 7,000)
  bonus           = calculationBase x rate% x months/12   (eligible)
                  = 0                                      (not eligible)

  Rate is bounded to the statutory band [8.33, 20.0] and months to
  [0, 12]; anything else is rejected before any store write.

PRECISION:
  All terms multiply before the single division by 1200 (100 for the
  percentage, 12 for the months), then round to paise. 15000 salary at
  8.33 for 12 months yields exactly 583.10.

SEE ALSO:
  - service.go: Lifecycle around the computed record
  - statutory/money.go: Decimal arithmetic
*/
package bonus

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// STATUTORY CONSTANTS
// =============================================================================

var (
	// EligibilityCeiling: employees earning above this basic salary are
	// outside the Act.
	EligibilityCeiling = statutory.RupeesFromInt(21000)

	// CalculationCap: the Act computes bonus on at most this much salary.
	CalculationCap = statutory.RupeesFromInt(7000)

	// MinRate and MaxRate bound the bonus percentage.
	MinRate = decimal.RequireFromString("8.33")
	MaxRate = decimal.RequireFromString("20.0")

	// DefaultRate is the statutory minimum, applied when a run supplies none.
	DefaultRate = MinRate

	// DefaultMonths assumes a full year of service.
	DefaultMonths = 12
)

// =============================================================================
// COMPUTATION
// =============================================================================

// Computation is the derived portion of a bonus record.
type Computation struct {
	IsEligible      bool
	CalculationBase statutory.Money
	BonusAmount     statutory.Money
}

// Compute derives bonus entitlement from employee facts.
// Fails with statutory.ErrInvalidRate or statutory.ErrInvalidMonths on
// out-of-band inputs; no partial result is returned.
func Compute(basicSalary statutory.Money, monthsWorked int, rate decimal.Decimal) (Computation, error) {
	if rate.LessThan(MinRate) || rate.GreaterThan(MaxRate) {
		return Computation{}, statutory.ErrInvalidRate
	}
	if monthsWorked < 0 || monthsWorked > 12 {
		return Computation{}, statutory.ErrInvalidMonths
	}

	c := Computation{
		IsEligible:      basicSalary.LessThanOrEqual(EligibilityCeiling),
		CalculationBase: basicSalary.Cap(CalculationCap),
		BonusAmount:     statutory.ZeroRupees(),
	}
	if !c.IsEligible {
		return c, nil
	}

	// base x rate x months / 1200, division last so exact inputs stay exact
	c.BonusAmount = c.CalculationBase.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(monthsWorked))).
		Div(decimal.NewFromInt(1200)).
		RoundPaise()
	return c, nil
}
