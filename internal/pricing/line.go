// Package pricing computes line items and document totals. Every function is
// pure: inputs are never mutated and the same inputs always give the same
// figures.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/money"
)

var (
	// ErrInvalidQuantity indicates a negative quantity.
	ErrInvalidQuantity = errors.New("pricing: quantity must be >= 0")
	// ErrInvalidRate indicates a discount or tax rate outside [0, 100].
	ErrInvalidRate = errors.New("pricing: rate must be between 0 and 100")
	// ErrInvalidAmount indicates a negative or inconsistent monetary input.
	ErrInvalidAmount = errors.New("pricing: invalid amount")
)

// TaxMode states whether the tax rate is added on top of the net amount or
// already contained in it.
type TaxMode string

const (
	TaxExclusive TaxMode = "exclusive"
	TaxInclusive TaxMode = "inclusive"
)

// Valid reports whether m is a known mode.
func (m TaxMode) Valid() bool {
	return m == TaxExclusive || m == TaxInclusive
}

// LineInput carries the caller supplied fields of a line. DiscountRate and
// DiscountAmount are mutually exclusive. TaxAmount, when set, replaces the
// tax derived from TaxRate.
type LineInput struct {
	Quantity       decimal.Decimal
	UnitAmount     decimal.Decimal
	DiscountRate   *decimal.Decimal
	DiscountAmount *decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      *decimal.Decimal
	TaxMode        TaxMode
}

// LineResult is the derived, unrounded breakdown of a line.
type LineResult struct {
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	Net       decimal.Decimal `json:"net"`
	Tax       decimal.Decimal `json:"tax"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	TaxMode   TaxMode         `json:"taxMode"`
}

// AddedTax is the tax that increases the document total. Inclusive tax is
// already part of the net amount.
func (r LineResult) AddedTax() decimal.Decimal {
	if r.TaxMode == TaxInclusive {
		return decimal.Zero
	}
	return r.Tax
}

// Rounded returns a display copy with every figure rounded by policy.
func (r LineResult) Rounded(policy money.Policy) LineResult {
	return LineResult{
		Gross:     policy.Round(r.Gross),
		Discount:  policy.Round(r.Discount),
		Net:       policy.Round(r.Net),
		Tax:       policy.Round(r.Tax),
		LineTotal: policy.Round(r.LineTotal),
		TaxMode:   r.TaxMode,
	}
}

// CalculateLine derives gross, discount, net, tax and line total.
func CalculateLine(in LineInput) (LineResult, error) {
	if in.Quantity.IsNegative() {
		return LineResult{}, fmt.Errorf("%w: got %s", ErrInvalidQuantity, in.Quantity)
	}
	if in.UnitAmount.IsNegative() {
		return LineResult{}, fmt.Errorf("%w: unit amount %s is negative", ErrInvalidAmount, in.UnitAmount)
	}
	if err := validateRate("tax", in.TaxRate); err != nil {
		return LineResult{}, err
	}
	mode := in.TaxMode
	if mode == "" {
		mode = TaxExclusive
	}
	if !mode.Valid() {
		return LineResult{}, fmt.Errorf("%w: unknown tax mode %q", ErrInvalidAmount, in.TaxMode)
	}
	if err := validateAdjustments(in); err != nil {
		return LineResult{}, err
	}
	if in.Quantity.IsZero() {
		return zeroResult(mode), nil
	}

	gross := in.Quantity.Mul(in.UnitAmount)
	discount, err := lineDiscount(in, gross)
	if err != nil {
		return LineResult{}, err
	}
	net := gross.Sub(discount)

	var tax decimal.Decimal
	switch {
	case in.TaxAmount != nil:
		tax = *in.TaxAmount
	case mode == TaxInclusive:
		tax = net.Mul(in.TaxRate).Div(money.Hundred().Add(in.TaxRate))
	default:
		tax = money.Percent(net, in.TaxRate)
	}

	total := net
	if mode == TaxExclusive {
		total = net.Add(tax)
	}
	return LineResult{
		Gross:     gross,
		Discount:  discount,
		Net:       net,
		Tax:       tax,
		LineTotal: total,
		TaxMode:   mode,
	}, nil
}

// validateAdjustments checks discount and tax inputs that do not depend on
// the gross amount.
func validateAdjustments(in LineInput) error {
	if in.DiscountRate != nil && in.DiscountAmount != nil {
		return fmt.Errorf("%w: discount rate and discount amount are mutually exclusive", ErrInvalidAmount)
	}
	if in.DiscountRate != nil {
		if err := validateRate("discount", *in.DiscountRate); err != nil {
			return err
		}
	}
	if in.DiscountAmount != nil && in.DiscountAmount.IsNegative() {
		return fmt.Errorf("%w: discount amount %s is negative", ErrInvalidAmount, in.DiscountAmount)
	}
	if in.TaxAmount != nil && in.TaxAmount.IsNegative() {
		return fmt.Errorf("%w: tax amount %s is negative", ErrInvalidAmount, in.TaxAmount)
	}
	return nil
}

func lineDiscount(in LineInput, gross decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case in.DiscountRate != nil:
		return money.Percent(gross, *in.DiscountRate), nil
	case in.DiscountAmount != nil:
		if in.DiscountAmount.GreaterThan(gross) {
			return decimal.Zero, fmt.Errorf("%w: discount %s exceeds gross %s", ErrInvalidAmount, in.DiscountAmount, gross)
		}
		return *in.DiscountAmount, nil
	}
	return decimal.Zero, nil
}

func zeroResult(mode TaxMode) LineResult {
	return LineResult{
		Gross:     decimal.Zero,
		Discount:  decimal.Zero,
		Net:       decimal.Zero,
		Tax:       decimal.Zero,
		LineTotal: decimal.Zero,
		TaxMode:   mode,
	}
}

func validateRate(name string, rate decimal.Decimal) error {
	if err := money.ValidateRate(rate); err != nil {
		return fmt.Errorf("%w: %s rate %s", ErrInvalidRate, name, rate)
	}
	return nil
}
