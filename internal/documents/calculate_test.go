package documents

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice-engine/internal/money"
	"github.com/odyssey-erp/backoffice-engine/internal/pricing"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func defaultOpts() CalcOptions {
	return CalcOptions{Policy: money.DefaultPolicy()}
}

func sampleInvoice() Document {
	return Document{
		Kind:   KindSaleInvoice,
		Status: StatusSent,
		Lines: []LineItem{
			{Quantity: d("10"), UnitAmount: d("100"), DiscountRate: ptr("5"), TaxRate: d("18"), TaxMode: pricing.TaxExclusive},
			{Quantity: d("10"), UnitAmount: d("118"), TaxRate: d("18"), TaxMode: pricing.TaxInclusive},
		},
		RoundingAdjustment: ptr("-1"),
	}
}

func TestRecalculateOverwritesStaleFigures(t *testing.T) {
	doc := sampleInvoice()
	doc.Lines[0].Computed.LineTotal = d("999999")
	doc.Totals.TotalAmount = d("1")

	out, err := Recalculate(doc, defaultOpts())
	require.NoError(t, err)
	require.True(t, out.Lines[0].Computed.LineTotal.Equal(d("1121")))
	require.True(t, out.Lines[1].Computed.LineTotal.Equal(d("1180")))
	require.True(t, out.Totals.TotalAmount.Equal(d("2300")))
	require.True(t, out.AmountDue.Equal(d("2300")))

	require.True(t, doc.Lines[0].Computed.LineTotal.Equal(d("999999")), "input must stay untouched")

	again, err := Recalculate(out, defaultOpts())
	require.NoError(t, err)
	require.True(t, again.Totals.TotalAmount.Equal(out.Totals.TotalAmount))
}

func TestRecalculateReportsLine(t *testing.T) {
	doc := sampleInvoice()
	doc.Lines[1].Quantity = d("-3")
	_, err := Recalculate(doc, defaultOpts())
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
	require.True(t, strings.HasPrefix(err.Error(), "line 2:"))
}

func TestRecordPayment(t *testing.T) {
	doc := sampleInvoice()

	partial, err := RecordPayment(doc, d("1000"), defaultOpts())
	require.NoError(t, err)
	require.Equal(t, StatusPartial, partial.Status)
	require.True(t, partial.AmountDue.Equal(d("1300")))
	require.Equal(t, StatusSent, doc.Status)

	paid, err := RecordPayment(partial, d("1300"), defaultOpts())
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.True(t, paid.AmountDue.IsZero())
	require.True(t, paid.AmountPaid.Equal(d("2300")))

	_, err = RecordPayment(partial, d("1300.01"), defaultOpts())
	require.ErrorIs(t, err, ErrOverpayment)
	_, err = RecordPayment(partial, d("0"), defaultOpts())
	require.ErrorIs(t, err, ErrInvalidPayment)
}

func TestRecordPaymentRejectsNonPayableAndIllegal(t *testing.T) {
	po := Document{Kind: KindPurchaseOrder, Status: StatusApproved}
	_, err := RecordPayment(po, d("1"), defaultOpts())
	require.ErrorIs(t, err, ErrNotPayable)

	draft := sampleInvoice()
	draft.Status = StatusDraft
	_, err = RecordPayment(draft, d("10"), defaultOpts())
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordPaymentWholesaleBill(t *testing.T) {
	bill := Document{
		Kind:   KindWholesaleBill,
		Status: StatusDraft,
		Lines:  []LineItem{{Quantity: d("5"), UnitAmount: d("20"), TaxMode: pricing.TaxExclusive}},
	}
	pending, err := RecordPayment(bill, d("40"), defaultOpts())
	require.NoError(t, err)
	require.Equal(t, StatusPending, pending.Status)

	paid, err := RecordPayment(pending, d("60"), defaultOpts())
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
}

func TestRecordPaymentSettlesDraftBillInOnePayment(t *testing.T) {
	bill := Document{
		Kind:   KindWholesaleBill,
		Status: StatusDraft,
		Lines:  []LineItem{{Quantity: d("5"), UnitAmount: d("20"), TaxMode: pricing.TaxExclusive}},
	}
	paid, err := RecordPayment(bill, d("100"), defaultOpts())
	require.NoError(t, err)
	require.Equal(t, StatusPaid, paid.Status)
	require.True(t, paid.AmountDue.IsZero())
	require.Equal(t, StatusDraft, bill.Status)
}

func TestRecalculateRejectsInconsistentAmountPaid(t *testing.T) {
	doc := sampleInvoice()
	doc.AmountPaid = d("-500")
	_, err := Recalculate(doc, defaultOpts())
	require.ErrorIs(t, err, ErrInvalidPayment)
	_, err = RecordPayment(doc, d("300"), defaultOpts())
	require.ErrorIs(t, err, ErrInvalidPayment)

	doc.AmountPaid = d("2300.01")
	_, err = Recalculate(doc, defaultOpts())
	require.ErrorIs(t, err, ErrInvalidPayment)

	doc.AmountPaid = d("2300")
	out, err := Recalculate(doc, defaultOpts())
	require.NoError(t, err)
	require.True(t, out.AmountDue.IsZero())
}

func TestRecalculateRejectsReturnedQuantityOutOfRange(t *testing.T) {
	for _, returned := range []string{"-1", "10.5"} {
		doc := sampleInvoice()
		doc.Lines[0].ReturnedQuantity = d(returned)
		_, err := Recalculate(doc, defaultOpts())
		require.ErrorIs(t, err, pricing.ErrInvalidQuantity, returned)
		require.True(t, strings.HasPrefix(err.Error(), "line 1:"), returned)
	}
}
