/*
fiscal.go - Financial-year labels and service-length math

PURPOSE:
  Bonus records are keyed by the Indian financial year (April 1 through
  March 31), labeled "2023-24". Gratuity entitlement scales with length
  of service in fractional years. Both calculations live here so the
  domain packages share one definition.

SERVICE LENGTH:
  Computed by calendar anniversaries, not by dividing elapsed days by
  365.25: an employee who joined on 2018-01-01 has served exactly 6
  years on 2024-01-01 regardless of how many leap days passed. The
  fraction past the last anniversary is days-elapsed over the length of
  the current anniversary year, rounded to 4 decimal places.

SEE ALSO:
  - gratuity/gratuity.go: Consumes YearsOfService
  - bonus/types.go: Uses FinancialYear as part of the record key
*/
package statutory

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FINANCIAL YEAR - "2023-24" labels, April-to-March
// =============================================================================

type FinancialYear string

var fyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsValid reports whether the label has the "YYYY-YY" form with
// consecutive years ("2023-24", and "2099-00" at the century boundary).
func (fy FinancialYear) IsValid() bool {
	if !fyPattern.MatchString(string(fy)) {
		return false
	}
	var start int
	fmt.Sscanf(string(fy)[:4], "%d", &start)
	next := (start + 1) % 100
	return string(fy)[5:] == fmt.Sprintf("%02d", next)
}

// FinancialYearOf returns the financial year containing t.
// April 1 belongs to the year it opens.
func FinancialYearOf(t time.Time) FinancialYear {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return FinancialYear(fmt.Sprintf("%d-%02d", start, (start+1)%100))
}

// =============================================================================
// SERVICE LENGTH
// =============================================================================

// YearsOfService returns the length of service between joining and
// reference as a non-negative fractional number of years. Fails with
// ErrInvalidDateRange when reference precedes joining.
func YearsOfService(joining, reference time.Time) (decimal.Decimal, error) {
	joining = truncateToDay(joining)
	reference = truncateToDay(reference)
	if reference.Before(joining) {
		return decimal.Zero, ErrInvalidDateRange
	}

	// Count whole anniversary years.
	years := 0
	for !joining.AddDate(years+1, 0, 0).After(reference) {
		years++
	}

	lastAnniversary := joining.AddDate(years, 0, 0)
	nextAnniversary := joining.AddDate(years+1, 0, 0)
	elapsed := reference.Sub(lastAnniversary).Hours() / 24
	span := nextAnniversary.Sub(lastAnniversary).Hours() / 24

	whole := decimal.NewFromInt(int64(years))
	if elapsed == 0 {
		return whole, nil
	}
	fraction := decimal.NewFromFloat(elapsed).Div(decimal.NewFromFloat(span))
	return whole.Add(fraction).Round(4), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
