package statutory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/statutory"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// FINANCIAL YEAR LABELS
// =============================================================================

func TestFinancialYear_IsValid(t *testing.T) {
	valid := []statutory.FinancialYear{"2023-24", "1999-00", "2099-00"}
	for _, fy := range valid {
		assert.True(t, fy.IsValid(), "%s should be valid", fy)
	}

	invalid := []statutory.FinancialYear{
		"2023-25", // not consecutive
		"2023-23",
		"2023",
		"2023-2024",
		"23-24",
		"2023/24",
		"",
	}
	for _, fy := range invalid {
		assert.False(t, fy.IsValid(), "%s should be invalid", fy)
	}
}

func TestFinancialYearOf_AprilBoundary(t *testing.T) {
	cases := []struct {
		day  time.Time
		want statutory.FinancialYear
	}{
		{date(2024, time.March, 31), "2023-24"},
		{date(2024, time.April, 1), "2024-25"},
		{date(2024, time.December, 15), "2024-25"},
		{date(2025, time.January, 1), "2024-25"},
		{date(2099, time.June, 1), "2099-00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statutory.FinancialYearOf(tc.day), "for %s", tc.day.Format("2006-01-02"))
	}
}

// =============================================================================
// SERVICE LENGTH
// =============================================================================

func TestYearsOfService_ExactAnniversary(t *testing.T) {
	// Six calendar years to the day is exactly 6, leap days
	// notwithstanding.
	years, err := statutory.YearsOfService(date(2018, time.January, 1), date(2024, time.January, 1))
	require.NoError(t, err)
	assert.True(t, years.Equal(decimal.NewFromInt(6)), "got %s", years)
}

func TestYearsOfService_SameDay_IsZero(t *testing.T) {
	years, err := statutory.YearsOfService(date(2024, time.May, 1), date(2024, time.May, 1))
	require.NoError(t, err)
	assert.True(t, years.IsZero())
}

func TestYearsOfService_HalfYear(t *testing.T) {
	// 2023-01-01 to 2023-07-02 is 182 of 365 days of the anniversary year.
	years, err := statutory.YearsOfService(date(2023, time.January, 1), date(2023, time.July, 2))
	require.NoError(t, err)

	want := decimal.NewFromInt(182).Div(decimal.NewFromInt(365)).Round(4)
	assert.True(t, years.Equal(want), "got %s, want %s", years, want)
}

func TestYearsOfService_FractionPastAnniversary(t *testing.T) {
	// Five whole years plus 73 days of a 365-day anniversary year: 5.2.
	years, err := statutory.YearsOfService(date(2017, time.March, 1), date(2022, time.May, 13))
	require.NoError(t, err)

	want := decimal.NewFromInt(5).Add(decimal.NewFromInt(73).Div(decimal.NewFromInt(365))).Round(4)
	assert.True(t, years.Equal(want), "got %s, want %s", years, want)
}

func TestYearsOfService_ReferenceBeforeJoining(t *testing.T) {
	_, err := statutory.YearsOfService(date(2024, time.January, 1), date(2023, time.December, 31))
	assert.ErrorIs(t, err, statutory.ErrInvalidDateRange)
}

func TestYearsOfService_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	years, err := statutory.YearsOfService(date(2018, time.January, 1), morning)
	require.NoError(t, err)
	assert.True(t, years.Equal(decimal.NewFromInt(6)), "got %s", years)
}
