package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places totals are rounded to.
const MoneyPlaces = 2

// Rounding selects how line totals are rounded to MoneyPlaces.
type Rounding string

const (
	// RoundHalfUp rounds .5 away from zero (10.005 -> 10.01).
	RoundHalfUp Rounding = "half_up"
	// RoundHalfEven is banker's rounding (10.005 -> 10.00, 10.015 -> 10.02).
	RoundHalfEven Rounding = "half_even"
)

// ParseRounding converts configuration input into a Rounding.
func ParseRounding(value string) (Rounding, error) {
	switch Rounding(strings.ToLower(strings.TrimSpace(value))) {
	case RoundHalfUp, "":
		return RoundHalfUp, nil
	case RoundHalfEven:
		return RoundHalfEven, nil
	}
	return "", fmt.Errorf("invalid rounding mode %q", value)
}

// Round rounds amount to MoneyPlaces using r.
func (r Rounding) Round(amount decimal.Decimal) decimal.Decimal {
	if r == RoundHalfEven {
		return amount.RoundBank(MoneyPlaces)
	}
	return amount.Round(MoneyPlaces)
}

// Total returns unitPrice * quantity rounded to MoneyPlaces.
func (r Rounding) Total(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return r.Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}
