package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultUnit is assumed when an amount carries no currency tag.
const DefaultUnit = "SOL"

// Money is a decimal amount with a free-form unit tag. Rental prices keep
// their duration suffix in the tag, e.g. "50 SOL per 1d".
type Money struct {
	Amount decimal.Decimal
	Unit   string
}

// NewMoney builds a Money with the default unit.
func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Unit: DefaultUnit}
}

// ParseMoney parses "<number> <unit...>" where the unit tail is optional.
func ParseMoney(s string) (Money, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Money{}, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, parts[0])
	}
	unit := strings.Join(parts[1:], " ")
	if unit == "" {
		unit = DefaultUnit
	}
	return Money{Amount: amount, Unit: unit}, nil
}

// LooseMoney parses like ParseMoney but never fails: input without a leading
// number becomes a zero amount with the raw text as the tag.
func LooseMoney(s string) Money {
	if m, err := ParseMoney(s); err == nil {
		return m
	}
	return Money{Amount: decimal.Zero, Unit: strings.TrimSpace(s)}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	if m.Unit == "" {
		return m.Amount.String()
	}
	return m.Amount.String() + " " + m.Unit
}
