package documents

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/money"
	"github.com/odyssey-erp/backoffice-engine/internal/pricing"
)

// CalcOptions carries the document level rounding settings.
type CalcOptions struct {
	Policy       money.Policy
	CashRounding *money.Increment
}

// Recalculate returns a copy of doc with every line and every total
// re-derived. Stored computed values are ignored.
func Recalculate(doc Document, opts CalcOptions) (Document, error) {
	out := doc.Clone()
	results := make([]pricing.LineResult, len(out.Lines))
	for i := range out.Lines {
		if err := out.Lines[i].CheckReturned(); err != nil {
			return Document{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		res, err := pricing.CalculateLine(out.Lines[i].Input())
		if err != nil {
			return Document{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		out.Lines[i].TaxMode = res.TaxMode
		out.Lines[i].Computed = res
		results[i] = res
	}
	totals, err := pricing.Aggregate(results, pricing.AggregateOptions{
		Policy:             opts.Policy,
		DocumentDiscount:   out.DocumentDiscount,
		RoundingAdjustment: out.RoundingAdjustment,
		CashRounding:       opts.CashRounding,
	})
	if err != nil {
		return Document{}, err
	}
	out.Totals = totals
	if out.Kind.Payable() {
		if out.AmountPaid.IsNegative() || out.AmountPaid.GreaterThan(totals.TotalAmount) {
			return Document{}, fmt.Errorf("%w: paid %s against total %s", ErrInvalidPayment, out.AmountPaid, totals.TotalAmount)
		}
		out.AmountDue = amountDue(out)
	}
	return out, nil
}

// RecordPayment returns a copy of doc with amount applied. Sale invoices move
// to partial or paid, wholesale bills to pending and then paid once settled.
func RecordPayment(doc Document, amount decimal.Decimal, opts CalcOptions) (Document, error) {
	if !doc.Kind.Payable() {
		return Document{}, fmt.Errorf("%w: %s", ErrNotPayable, doc.Kind.Noun())
	}
	if !amount.IsPositive() {
		return Document{}, fmt.Errorf("%w: got %s", ErrInvalidPayment, amount)
	}
	out, err := Recalculate(doc, opts)
	if err != nil {
		return Document{}, err
	}
	amount = opts.Policy.Round(amount)
	if amount.GreaterThan(out.AmountDue) {
		return Document{}, fmt.Errorf("%w: paying %s against %s", ErrOverpayment, amount, out.AmountDue)
	}
	target := nextPaymentStatus(out.Kind, out.Status, out.AmountDue.Sub(amount))
	if out.Kind == KindWholesaleBill && out.Status == StatusDraft && target == StatusPaid {
		// A draft bill settled in one payment still passes through pending.
		if err := Transition(&out, StatusPending); err != nil {
			return Document{}, err
		}
	}
	if target != out.Status {
		if err := Transition(&out, target); err != nil {
			return Document{}, err
		}
	}
	out.AmountPaid = out.AmountPaid.Add(amount)
	out.AmountDue = amountDue(out)
	return out, nil
}

func nextPaymentStatus(kind Kind, current Status, due decimal.Decimal) Status {
	switch {
	case due.IsZero():
		return StatusPaid
	case kind == KindSaleInvoice:
		return StatusPartial
	case current == StatusDraft:
		return StatusPending
	}
	return current
}

func amountDue(doc Document) decimal.Decimal {
	due := doc.Totals.TotalAmount.Sub(doc.AmountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
