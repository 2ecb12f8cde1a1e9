package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is an immutable amount in whole pesos. Intermediate results may carry
// fractions; RoundUnits, Percentage and SplitInclusiveTax round half-up to
// the unit.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) Money { return Money{amount: amount} }

func NewMoneyFromInt(amount int64) Money { return Money{amount: decimal.NewFromInt(amount)} }

// NewMoneyFromString parses a decimal literal such as "2500" or "12.5"
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", amount, err)
	}
	return Money{amount: d}, nil
}

func Zero() Money { return Money{amount: decimal.Zero} }

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) Equals(other Money) bool      { return m.amount.Equal(other.amount) }
func (m Money) LessThan(other Money) bool    { return m.amount.LessThan(other.amount) }
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

func (m Money) Add(other Money) Money      { return Money{amount: m.amount.Add(other.amount)} }
func (m Money) Subtract(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }

// MultiplyByInt scales a unit amount by a quantity
func (m Money) MultiplyByInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Average splits the amount over count parts, unrounded. A non-positive
// count yields zero.
func (m Money) Average(count int64) Money {
	if count <= 0 {
		return Zero()
	}
	return Money{amount: m.amount.Div(decimal.NewFromInt(count))}
}

// Min returns the smaller amount
func (m Money) Min(other Money) Money {
	if other.LessThan(m) {
		return other
	}
	return m
}

// ClampZero floors negative amounts at zero
func (m Money) ClampZero() Money {
	if m.IsNegative() {
		return Zero()
	}
	return m
}

// RoundUnits rounds to whole pesos. decimal rounds half away from zero,
// which is half-up for the non-negative amounts orders produce.
func (m Money) RoundUnits() Money {
	return Money{amount: m.amount.Round(0)}
}

// Percentage is round(m * percent / 100)
func (m Money) Percentage(percent decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(percent).Div(hundred)}.RoundUnits()
}

// SplitInclusiveTax separates the tax contained in a tax-inclusive amount:
// tax = round(m * rate / (100 + rate)), preTax = m - tax.
// A rate of zero or less means the whole amount is pre-tax.
func (m Money) SplitInclusiveTax(ratePercent decimal.Decimal) (tax, preTax Money) {
	if !ratePercent.IsPositive() {
		return Zero(), m
	}
	tax = Money{amount: m.amount.Mul(ratePercent).Div(hundred.Add(ratePercent))}.RoundUnits()
	return tax, m.Subtract(tax)
}

func (m Money) String() string { return m.amount.String() }

// Float64 is lossy; use it only for ratios and display
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// IntPart truncates toward zero
func (m Money) IntPart() int64 { return m.amount.IntPart() }

// MarshalJSON writes a bare number so report consumers can sum amounts directly
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts 2500, 2500.5 and "2500"
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	m.amount = d
	return nil
}

func (m Money) Value() (driver.Value, error) { return m.amount.String(), nil }

// Scan reads NUMERIC, text and integer columns. NULL becomes zero; scan into
// *Money where a missing amount must stay distinguishable.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan %T into money: %w", value, err)
	}
	m.amount = d
	return nil
}
