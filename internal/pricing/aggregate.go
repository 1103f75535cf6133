package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/money"
)

// AggregateOptions controls document level figures.
type AggregateOptions struct {
	Policy           money.Policy
	DocumentDiscount decimal.Decimal
	// RoundingAdjustment overrides any derived adjustment when set.
	RoundingAdjustment *decimal.Decimal
	// CashRounding derives the adjustment when no override is given.
	CashRounding *money.Increment
}

// Totals summarises a document. TotalAmount always equals
// Subtotal - DiscountAmount + TaxAmount + RoundingAdjustment.
type Totals struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	TaxAmount          decimal.Decimal `json:"taxAmount"`
	IncludedTax        decimal.Decimal `json:"includedTax"`
	RoundingAdjustment decimal.Decimal `json:"roundingAdjustment"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
}

// Aggregate folds line results into document totals. Sums are kept at full
// precision and rounded once, so the result does not depend on line order.
func Aggregate(lines []LineResult, opts AggregateOptions) (Totals, error) {
	if opts.DocumentDiscount.IsNegative() {
		return Totals{}, fmt.Errorf("%w: document discount %s is negative", ErrInvalidAmount, opts.DocumentDiscount)
	}

	subtotal := decimal.Zero
	lineDiscount := decimal.Zero
	addedTax := decimal.Zero
	includedTax := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Gross)
		lineDiscount = lineDiscount.Add(line.Discount)
		if line.TaxMode == TaxInclusive {
			includedTax = includedTax.Add(line.Tax)
			continue
		}
		addedTax = addedTax.Add(line.Tax)
	}
	if opts.DocumentDiscount.GreaterThan(subtotal.Sub(lineDiscount)) {
		return Totals{}, fmt.Errorf("%w: document discount %s exceeds net %s", ErrInvalidAmount, opts.DocumentDiscount, subtotal.Sub(lineDiscount))
	}

	policy := opts.Policy
	totals := Totals{
		Subtotal:       policy.Round(subtotal),
		DiscountAmount: policy.Round(lineDiscount.Add(opts.DocumentDiscount)),
		TaxAmount:      policy.Round(addedTax),
		IncludedTax:    policy.Round(includedTax),
	}
	beforeRounding := totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)

	switch {
	case opts.RoundingAdjustment != nil:
		totals.RoundingAdjustment = policy.Round(*opts.RoundingAdjustment)
	case opts.CashRounding != nil:
		totals.RoundingAdjustment = opts.CashRounding.Adjustment(beforeRounding)
	default:
		totals.RoundingAdjustment = decimal.Zero
	}
	totals.TotalAmount = beforeRounding.Add(totals.RoundingAdjustment)
	return totals, nil
}
