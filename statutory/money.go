/*
Package statutory provides the shared core of the payroll record engine.

PURPOSE:
  This package contains the domain-neutral building blocks used by the
  bonus and gratuity packages: exact monetary arithmetic, the record
  status machinery, financial-year math, and the error taxonomy shared
  across the engine.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A rupee amount with exact decimal arithmetic
  - Paise precision: All derived amounts round to 2 decimal places

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors.
     These are statutory, auditable amounts; a float accumulation error
     is an audit finding.
  2. Division last: Formula helpers multiply before dividing so exact
     inputs produce exact outputs (7000 x 8.33 = 58310 / 100, not
     7000 x 0.0833).

USAGE:
  salary := statutory.RupeesFromInt(15000)
  base := salary.Min(statutory.RupeesFromInt(7000))

SEE ALSO:
  - status.go: Record status machinery
  - fiscal.go: Financial-year and service-length math
  - errors.go: Error taxonomy
*/
package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Rupee amount with exact decimal arithmetic
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func Rupees(value decimal.Decimal) Money { return Money{Value: value} }

func RupeesFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func RupeesFromFloat(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

// RupeesFromString parses a decimal rupee amount. These are auditable
// figures: a malformed value is reported, never coerced to zero.
func RupeesFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("malformed rupee amount %q: %w", s, err)
	}
	return Money{Value: d}, nil
}

func ZeroRupees() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money              { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money              { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) GreaterThan(b Money) bool       { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool          { return m.Value.LessThan(b.Value) }
func (m Money) LessThanOrEqual(b Money) bool   { return m.Value.LessThanOrEqual(b.Value) }
func (m Money) Equal(b Money) bool             { return m.Value.Equal(b.Value) }

func (m Money) Min(b Money) Money {
	if m.LessThan(b) {
		return m
	}
	return b
}

// Cap bounds the amount at ceiling (statutory caps).
func (m Money) Cap(ceiling Money) Money { return m.Min(ceiling) }

// RoundPaise rounds to 2 decimal places, half away from zero.
func (m Money) RoundPaise() Money { return Money{Value: m.Value.Round(2)} }

func (m Money) String() string { return m.Value.String() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RecordID string
type BranchID string
