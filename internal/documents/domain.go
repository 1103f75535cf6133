package documents

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/pricing"
)

// Kind enumerates the supported back-office documents.
type Kind string

const (
	KindPurchaseOrder  Kind = "purchase_order"
	KindGRN            Kind = "grn"
	KindSalesOrder     Kind = "sales_order"
	KindSaleInvoice    Kind = "sale_invoice"
	KindCreditNote     Kind = "credit_note"
	KindWholesaleOrder Kind = "wholesale_order"
	KindWholesaleBill  Kind = "wholesale_bill"
)

// Kinds lists every kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindPurchaseOrder,
		KindGRN,
		KindSalesOrder,
		KindSaleInvoice,
		KindCreditNote,
		KindWholesaleOrder,
		KindWholesaleBill,
	}
}

// Noun is the human label used in messages.
func (k Kind) Noun() string {
	switch k {
	case KindPurchaseOrder:
		return "purchase order"
	case KindGRN:
		return "GRN"
	case KindSalesOrder:
		return "sales order"
	case KindSaleInvoice:
		return "invoice"
	case KindCreditNote:
		return "credit note"
	case KindWholesaleOrder:
		return "wholesale order"
	case KindWholesaleBill:
		return "wholesale bill"
	}
	return string(k)
}

// Payable reports whether payments can be recorded against the kind.
func (k Kind) Payable() bool {
	return k == KindSaleInvoice || k == KindWholesaleBill
}

// Outbound reports whether posting the document takes goods out of stock.
func (k Kind) Outbound() bool {
	switch k {
	case KindSalesOrder, KindSaleInvoice, KindWholesaleOrder, KindWholesaleBill:
		return true
	}
	return false
}

// Status is a lifecycle state. Valid values depend on the kind.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusReceived          Status = "received"
	StatusCancelled         Status = "cancelled"
	StatusPartial           Status = "partial"
	StatusCompleted         Status = "completed"
	StatusRejected          Status = "rejected"
	StatusSent              Status = "sent"
	StatusFulfilled         Status = "fulfilled"
	StatusOverdue           Status = "overdue"
	StatusPaid              Status = "paid"
	StatusProcessed         Status = "processed"
	StatusConfirmed         Status = "confirmed"
	StatusProcessing        Status = "processing"
	StatusShipped           Status = "shipped"
	StatusDelivered         Status = "delivered"
	StatusPartiallyReturned Status = "partially_returned"
	StatusReturned          Status = "returned"
	StatusExchanged         Status = "exchanged"
)

// LineItem is one document line. Computed is overwritten on every
// recalculation.
type LineItem struct {
	ID               uuid.UUID          `json:"id"`
	ProductID        string             `json:"productId,omitempty"`
	Description      string             `json:"description,omitempty"`
	Quantity         decimal.Decimal    `json:"quantity"`
	UnitAmount       decimal.Decimal    `json:"unitAmount"`
	DiscountRate     *decimal.Decimal   `json:"discountRate,omitempty"`
	DiscountAmount   *decimal.Decimal   `json:"discountAmount,omitempty"`
	TaxRate          decimal.Decimal    `json:"taxRate"`
	TaxAmount        *decimal.Decimal   `json:"taxAmount,omitempty"`
	TaxMode          pricing.TaxMode    `json:"taxMode"`
	ReturnedQuantity decimal.Decimal    `json:"returnedQuantity"`
	Computed         pricing.LineResult `json:"computed"`
}

// Input returns the calculator input of the line.
func (l LineItem) Input() pricing.LineInput {
	return pricing.LineInput{
		Quantity:       l.Quantity,
		UnitAmount:     l.UnitAmount,
		DiscountRate:   l.DiscountRate,
		DiscountAmount: l.DiscountAmount,
		TaxRate:        l.TaxRate,
		TaxAmount:      l.TaxAmount,
		TaxMode:        l.TaxMode,
	}
}

// CheckReturned rejects a returned quantity outside 0..Quantity.
func (l LineItem) CheckReturned() error {
	if l.ReturnedQuantity.IsNegative() || l.ReturnedQuantity.GreaterThan(l.Quantity) {
		return fmt.Errorf("%w: returned quantity %s of %s", pricing.ErrInvalidQuantity, l.ReturnedQuantity, l.Quantity)
	}
	return nil
}

// Returnable is the quantity still eligible for a return.
func (l LineItem) Returnable() decimal.Decimal {
	remaining := l.Quantity.Sub(l.ReturnedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Document is the aggregate the engine operates on.
type Document struct {
	ID                 uuid.UUID        `json:"id"`
	Kind               Kind             `json:"kind"`
	Status             Status           `json:"status"`
	Currency           string           `json:"currency,omitempty"`
	Number             string           `json:"number,omitempty"`
	SourceDocumentID   *uuid.UUID       `json:"sourceDocumentId,omitempty"`
	Lines              []LineItem       `json:"lines"`
	DocumentDiscount   decimal.Decimal  `json:"documentDiscount"`
	RoundingAdjustment *decimal.Decimal `json:"roundingAdjustmentOverride,omitempty"`
	Totals             pricing.Totals   `json:"totals"`
	AmountPaid         decimal.Decimal  `json:"amountPaid"`
	AmountDue          decimal.Decimal  `json:"amountDue"`
}

// Clone returns a deep copy so callers can derive new documents without
// touching the original.
func (d Document) Clone() Document {
	out := d
	out.Lines = make([]LineItem, len(d.Lines))
	copy(out.Lines, d.Lines)
	for i := range out.Lines {
		out.Lines[i].DiscountRate = cloneDecimal(d.Lines[i].DiscountRate)
		out.Lines[i].DiscountAmount = cloneDecimal(d.Lines[i].DiscountAmount)
		out.Lines[i].TaxAmount = cloneDecimal(d.Lines[i].TaxAmount)
	}
	out.RoundingAdjustment = cloneDecimal(d.RoundingAdjustment)
	if d.SourceDocumentID != nil {
		id := *d.SourceDocumentID
		out.SourceDocumentID = &id
	}
	return out
}

// Line looks up a line by id.
func (d Document) Line(id uuid.UUID) (LineItem, bool) {
	for _, line := range d.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return LineItem{}, false
}

func cloneDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var (
	// ErrUnknownKind indicates an unsupported document kind.
	ErrUnknownKind = errors.New("documents: unknown kind")
	// ErrUnknownStatus indicates a status outside the kind's status set.
	ErrUnknownStatus = errors.New("documents: unknown status")
	// ErrInvalidTransition indicates a transition missing from the kind's table.
	ErrInvalidTransition = errors.New("documents: invalid status transition")
	// ErrNotPayable indicates a payment against a kind that takes none.
	ErrNotPayable = errors.New("documents: kind does not accept payments")
	// ErrInvalidPayment indicates a non positive payment amount.
	ErrInvalidPayment = errors.New("documents: payment amount must be positive")
	// ErrOverpayment indicates a payment larger than the amount due.
	ErrOverpayment = errors.New("documents: payment exceeds amount due")
	// ErrValidation indicates a malformed document payload.
	ErrValidation = errors.New("documents: validation failed")
)
