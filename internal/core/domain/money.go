package domain

import (
	"fmt"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the number of fractional digits carried by Money, matching
// currency minor units.
const moneyPlaces = 2

// Money is a fixed-point monetary amount with two fractional digits and exact
// decimal arithmetic. The zero value is 0.00.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney builds a Money from a decimal, rounding to two fractional digits
// using banker's rounding.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d.RoundBank(moneyPlaces)}
}

// ParseMoney parses a caller-supplied amount string. Non-numeric or
// non-finite input fails with ErrInvalidAmount.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, s)
	}
	return NewMoney(d), nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other, failing with ErrAmountUnderflow if the result would
// be negative.
func (m Money) Sub(other Money) (Money, error) {
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s", apperrors.ErrAmountUnderflow, m, other)
	}
	return Money{amount: result}, nil
}

// Mul returns m scaled by factor, rounded back to two fractional digits.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).RoundBank(moneyPlaces)}
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal reports whether m == other.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Decimal exposes the underlying decimal value, e.g. for persistence.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyPlaces)
}

// MarshalJSON renders the amount as a JSON string to avoid float precision
// loss in clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, data)
	}
	*m = NewMoney(d)
	return nil
}
