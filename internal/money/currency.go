package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrUnknownCurrency indicates a code that is not an ISO 4217 currency.
var ErrUnknownCurrency = errors.New("money: unknown currency")

// ParseCurrency normalises an ISO 4217 code.
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return unit, nil
}

// PolicyForCurrency returns a half-up policy at the currency's minor unit
// scale (2 for INR and USD, 0 for JPY).
func PolicyForCurrency(code string) (Policy, error) {
	unit, err := ParseCurrency(code)
	if err != nil {
		return Policy{}, err
	}
	scale, _ := currency.Standard.Rounding(unit)
	return Policy{Places: int32(scale), Mode: ModeHalfUp}, nil
}

// CashIncrementForCurrency returns the smallest cash step of the currency,
// e.g. 0.05 for CHF.
func CashIncrementForCurrency(code string) (Increment, error) {
	unit, err := ParseCurrency(code)
	if err != nil {
		return Increment{}, err
	}
	scale, step := currency.Cash.Rounding(unit)
	if step <= 0 {
		step = 1
	}
	return Increment{Step: decimal.New(int64(step), -int32(scale)), Mode: ModeHalfUp}, nil
}
