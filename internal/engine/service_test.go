package engine

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
	"github.com/odyssey-erp/backoffice-engine/internal/gate"
	"github.com/odyssey-erp/backoffice-engine/internal/inventory"
	"github.com/odyssey-erp/backoffice-engine/internal/money"
	"github.com/odyssey-erp/backoffice-engine/internal/returns"
)

const invoicePayload = `{
  "kind": "sale_invoice",
  "lines": [
    {"productId": "SKU-1", "quantity": "10", "unitAmount": "100", "discountRate": "5", "taxRate": "18", "taxMode": "exclusive"},
    {"productId": "SKU-2", "quantity": "10", "unitAmount": "118", "taxRate": "18", "taxMode": "inclusive"}
  ],
  "roundingAdjustment": "-1"
}`

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decodeInvoice(t *testing.T) documents.Document {
	t.Helper()
	doc, err := documents.Decode(strings.NewReader(invoicePayload))
	require.NoError(t, err)
	return doc
}

func TestInvoiceLifecycleToCreditNote(t *testing.T) {
	svc := NewService(DefaultConfig())
	caps := gate.NewCapabilities(gate.Scopes()...)

	doc, err := svc.Recalculate(decodeInvoice(t))
	require.NoError(t, err)
	require.Equal(t, "INR", doc.Currency)
	require.True(t, doc.Totals.TotalAmount.Equal(d("2300")))
	require.Equal(t, "Two Thousand Three Hundred Rupees only", svc.AmountInWords(doc))

	require.False(t, svc.Decide(gate.ActionPrint, doc, caps).Allowed)

	sent, err := svc.Transition(doc, documents.StatusSent)
	require.NoError(t, err)
	require.Equal(t, documents.StatusDraft, doc.Status)

	paid, err := svc.RecordPayment(sent, d("2300"))
	require.NoError(t, err)
	require.Equal(t, documents.StatusPaid, paid.Status)

	decision := svc.Decide(gate.ActionEdit, paid, caps)
	require.Equal(t, gate.Decision{Allowed: false, Reason: "cannot edit paid invoice"}, decision)
	require.Contains(t, svc.AllowedActions(paid, caps), gate.ActionReturn)

	note, err := svc.DeriveCreditNote(paid, returns.Selection{
		SourceDocumentID: paid.ID,
		Lines: map[uuid.UUID]returns.LineReturn{
			paid.Lines[1].ID: {Quantity: d("1"), Reason: returns.Reasons[0]},
		},
	})
	require.NoError(t, err)
	require.Equal(t, documents.KindCreditNote, note.Kind)
	require.Equal(t, documents.StatusDraft, note.Status)
	require.Equal(t, "INR", note.Currency)
	require.True(t, note.Totals.TotalAmount.Equal(d("118")))
	require.True(t, note.Totals.IncludedTax.Equal(d("18")))
}

func TestDeriveCreditNoteHonoursReasonPolicy(t *testing.T) {
	cfg := DefaultConfig()
	svc := NewService(cfg)
	doc, err := svc.Recalculate(decodeInvoice(t))
	require.NoError(t, err)
	sel := returns.Selection{
		SourceDocumentID: doc.ID,
		Lines:            map[uuid.UUID]returns.LineReturn{doc.Lines[0].ID: {Quantity: d("1")}},
	}
	_, err = svc.DeriveCreditNote(doc, sel)
	require.ErrorIs(t, err, returns.ErrMissingReason)

	cfg.RequireReturnReason = false
	_, err = NewService(cfg).DeriveCreditNote(doc, sel)
	require.NoError(t, err)
}

func TestCheckStock(t *testing.T) {
	svc := NewService(DefaultConfig())
	doc := decodeInvoice(t)

	err := svc.CheckStock(doc, inventory.Snapshot{"SKU-1": d("10"), "SKU-2": d("9")})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	require.Contains(t, err.Error(), "SKU-2")

	require.NoError(t, svc.CheckStock(doc, inventory.Snapshot{"SKU-1": d("10"), "SKU-2": d("10")}))

	doc.Kind = documents.KindGRN
	require.NoError(t, svc.CheckStock(doc, inventory.Snapshot{}))
}

func TestCashRoundingConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CashRounding = &money.Increment{Step: d("0.5"), Mode: money.ModeUp}
	svc := NewService(cfg)

	doc := decodeInvoice(t)
	doc.RoundingAdjustment = nil
	doc.Lines[0].UnitAmount = d("100.01")

	out, err := svc.Recalculate(doc)
	require.NoError(t, err)
	require.True(t, out.Totals.TotalAmount.Mod(d("0.5")).IsZero(), out.Totals.TotalAmount.String())
	require.True(t, out.Totals.RoundingAdjustment.IsPositive())
}
