package bonus_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/bonus"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// FORMULA TESTS
// =============================================================================

func TestCompute_MinRateFullYear(t *testing.T) {
	// GIVEN: basic salary 15000, statutory minimum rate, full year
	// WHEN: computing the bonus
	// THEN: eligible, base capped at 7000, amount exactly 583.10

	comp, err := bonus.Compute(statutory.RupeesFromInt(15000), 12, decimal.RequireFromString("8.33"))
	require.NoError(t, err)

	assert.True(t, comp.IsEligible)
	assert.True(t, comp.CalculationBase.Equal(statutory.RupeesFromInt(7000)),
		"base should be capped at 7000, got %s", comp.CalculationBase)
	assert.True(t, comp.BonusAmount.Equal(statutory.RupeesFromFloat(583.1)),
		"expected 583.1, got %s", comp.BonusAmount)
}

func TestCompute_AboveCeiling_NotEligible(t *testing.T) {
	// GIVEN: basic salary above the 21000 eligibility ceiling
	// WHEN: computing the bonus at any rate/months
	// THEN: not eligible, amount is zero

	comp, err := bonus.Compute(statutory.RupeesFromInt(25000), 12, decimal.RequireFromString("20"))
	require.NoError(t, err)

	assert.False(t, comp.IsEligible)
	assert.True(t, comp.BonusAmount.IsZero(), "expected 0, got %s", comp.BonusAmount)
}

func TestCompute_AtCeiling_StillEligible(t *testing.T) {
	comp, err := bonus.Compute(statutory.RupeesFromInt(21000), 12, bonus.MinRate)
	require.NoError(t, err)
	assert.True(t, comp.IsEligible)
}

func TestCompute_BaseNeverExceedsCap(t *testing.T) {
	for _, salary := range []int64{0, 3500, 7000, 7001, 15000, 21000} {
		comp, err := bonus.Compute(statutory.RupeesFromInt(salary), 12, bonus.MinRate)
		require.NoError(t, err)
		assert.True(t, comp.CalculationBase.LessThanOrEqual(bonus.CalculationCap),
			"base %s exceeds cap for salary %d", comp.CalculationBase, salary)
	}
}

func TestCompute_ScalesWithMonths(t *testing.T) {
	// GIVEN: identical facts except months worked
	// WHEN: computing for 6 and 12 months
	// THEN: the 6-month amount is exactly half

	full, err := bonus.Compute(statutory.RupeesFromInt(10000), 12, decimal.RequireFromString("10"))
	require.NoError(t, err)
	half, err := bonus.Compute(statutory.RupeesFromInt(10000), 6, decimal.RequireFromString("10"))
	require.NoError(t, err)

	assert.True(t, half.BonusAmount.Mul(decimal.NewFromInt(2)).Equal(full.BonusAmount),
		"6 months (%s) should be half of 12 months (%s)", half.BonusAmount, full.BonusAmount)
}

func TestCompute_ScalesWithRate(t *testing.T) {
	low, err := bonus.Compute(statutory.RupeesFromInt(10000), 12, decimal.RequireFromString("10"))
	require.NoError(t, err)
	high, err := bonus.Compute(statutory.RupeesFromInt(10000), 12, decimal.RequireFromString("20"))
	require.NoError(t, err)

	assert.True(t, low.BonusAmount.Mul(decimal.NewFromInt(2)).Equal(high.BonusAmount))
}

func TestCompute_ZeroMonths_ZeroAmount(t *testing.T) {
	comp, err := bonus.Compute(statutory.RupeesFromInt(10000), 0, bonus.MinRate)
	require.NoError(t, err)
	assert.True(t, comp.IsEligible)
	assert.True(t, comp.BonusAmount.IsZero())
}

func TestCompute_RateOutsideBand_Rejected(t *testing.T) {
	for _, rate := range []string{"8.32", "0", "20.01", "-5", "100"} {
		_, err := bonus.Compute(statutory.RupeesFromInt(10000), 12, decimal.RequireFromString(rate))
		assert.ErrorIs(t, err, statutory.ErrInvalidRate, "rate %s should be rejected", rate)
	}
}

func TestCompute_MonthsOutsideRange_Rejected(t *testing.T) {
	for _, months := range []int{-1, 13, 24} {
		_, err := bonus.Compute(statutory.RupeesFromInt(10000), months, bonus.MinRate)
		assert.ErrorIs(t, err, statutory.ErrInvalidMonths, "months %d should be rejected", months)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	// Same facts, same output. This is what makes payroll re-runs idempotent.
	a, err := bonus.Compute(statutory.RupeesFromInt(18000), 9, decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	b, err := bonus.Compute(statutory.RupeesFromInt(18000), 9, decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	assert.True(t, a.BonusAmount.Equal(b.BonusAmount))
}
