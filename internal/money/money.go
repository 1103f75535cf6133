// Package money holds the decimal primitives shared by every document
// calculation: rates, percentages and the rounding policy applied at
// aggregation boundaries.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRate indicates a percentage outside [0, 100].
	ErrInvalidRate = errors.New("money: rate must be between 0 and 100")
	// ErrInvalidMode indicates an unknown rounding mode.
	ErrInvalidMode = errors.New("money: unknown rounding mode")
	// ErrInvalidIncrement indicates a non positive cash rounding step.
	ErrInvalidIncrement = errors.New("money: rounding step must be positive")
)

var hundred = decimal.NewFromInt(100)

// Hundred returns the percentage base.
func Hundred() decimal.Decimal {
	return hundred
}

// ValidateRate rejects rates outside [0, 100].
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrInvalidRate, rate.String())
	}
	return nil
}

// Percent returns amount * rate / 100.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// Mode selects how a value is brought to a precision or step.
type Mode string

const (
	// ModeHalfUp rounds half away from zero.
	ModeHalfUp Mode = "half_up"
	// ModeHalfEven is banker's rounding.
	ModeHalfEven Mode = "half_even"
	// ModeUp rounds towards positive infinity.
	ModeUp Mode = "up"
	// ModeDown rounds towards negative infinity.
	ModeDown Mode = "down"
)

// ParseMode accepts the configuration vocabulary, including the "nearest"
// alias used by the settings screen.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "half_up", "nearest":
		return ModeHalfUp, nil
	case "half_even", "bank":
		return ModeHalfEven, nil
	case "up", "ceil":
		return ModeUp, nil
	case "down", "floor":
		return ModeDown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
}

func (m Mode) round(d decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case ModeHalfEven:
		return d.RoundBank(places)
	case ModeUp:
		return d.RoundCeil(places)
	case ModeDown:
		return d.RoundFloor(places)
	default:
		return d.Round(places)
	}
}

// Policy is the precision every aggregate figure is rounded to.
type Policy struct {
	Places int32
	Mode   Mode
}

// DefaultPolicy rounds half-up to two decimal places.
func DefaultPolicy() Policy {
	return Policy{Places: 2, Mode: ModeHalfUp}
}

// Round applies the policy once.
func (p Policy) Round(d decimal.Decimal) decimal.Decimal {
	return p.Mode.round(d, p.Places)
}

// Format renders d with exactly Places decimals.
func (p Policy) Format(d decimal.Decimal) string {
	return p.Round(d).StringFixed(p.Places)
}

// Increment rounds totals to a multiple of Step (cash rounding).
type Increment struct {
	Step decimal.Decimal
	Mode Mode
}

// Round returns d rounded to the nearest multiple of Step under Mode.
func (i Increment) Round(d decimal.Decimal) decimal.Decimal {
	if !i.Step.IsPositive() {
		return d
	}
	units := i.Mode.round(d.Div(i.Step), 0)
	return units.Mul(i.Step)
}

// Adjustment is the signed amount that brings d onto the step.
func (i Increment) Adjustment(d decimal.Decimal) decimal.Decimal {
	return i.Round(d).Sub(d)
}

// ParseCashRounding builds an Increment from the settings pair
// (no_rounding | nearest | up | down, step). A nil result means no cash
// rounding.
func ParseCashRounding(method, step string) (*Increment, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" || method == "no_rounding" || method == "none" {
		return nil, nil
	}
	mode, err := ParseMode(method)
	if err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(strings.TrimSpace(step))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIncrement, step)
	}
	if !value.IsPositive() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIncrement, step)
	}
	return &Increment{Step: value, Mode: mode}, nil
}
