// Package returns derives credit notes from returned quantities of an
// existing document.
package returns

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
	"github.com/odyssey-erp/backoffice-engine/internal/pricing"
)

var (
	// ErrEmptySelection indicates every selected quantity is zero.
	ErrEmptySelection = errors.New("returns: no quantity selected")
	// ErrQuantityExceedsOriginal indicates a return above the returnable quantity.
	ErrQuantityExceedsOriginal = errors.New("returns: quantity exceeds original")
	// ErrMissingReason indicates a selected line without a reason.
	ErrMissingReason = errors.New("returns: reason required")
	// ErrSourceMismatch indicates the selection targets another document.
	ErrSourceMismatch = errors.New("returns: selection does not match source document")
	// ErrUnknownLine indicates a selection entry for a line the source lacks.
	ErrUnknownLine = errors.New("returns: unknown source line")
	// ErrNotReturnable indicates a document kind that takes no returns.
	ErrNotReturnable = errors.New("returns: document kind does not accept returns")
)

// Reasons offered to users when recording a return.
var Reasons = []string{
	"Defective product",
	"Wrong item received",
	"Damaged during shipping",
	"Not as described",
	"Changed mind",
	"Ordered wrong item",
	"Quality issue",
	"Incorrect size/fit",
	"Duplicate order",
	"Other",
}

// LineReturn is the quantity returned on one source line.
type LineReturn struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason,omitempty"`
}

// Selection maps source line ids to returned quantities.
type Selection struct {
	SourceDocumentID uuid.UUID                `json:"sourceDocumentId"`
	Lines            map[uuid.UUID]LineReturn `json:"lines"`
}

// Options controls derivation.
type Options struct {
	RequireReason bool
	Calc          documents.CalcOptions
}

var returnable = map[documents.Kind]bool{
	documents.KindSaleInvoice:    true,
	documents.KindGRN:            true,
	documents.KindWholesaleOrder: true,
	documents.KindWholesaleBill:  true,
}

// DeriveCreditNote builds a draft credit note for the selected quantities of
// src. The selection is validated in full before anything is built.
func DeriveCreditNote(src documents.Document, sel Selection, opts Options) (documents.Document, error) {
	if !returnable[src.Kind] {
		return documents.Document{}, fmt.Errorf("%w: %s", ErrNotReturnable, src.Kind.Noun())
	}
	if sel.SourceDocumentID != src.ID {
		return documents.Document{}, fmt.Errorf("%w: %s != %s", ErrSourceMismatch, sel.SourceDocumentID, src.ID)
	}
	selected, err := validateSelection(src, sel, opts.RequireReason)
	if err != nil {
		return documents.Document{}, err
	}

	sourceID := src.ID
	note := documents.Document{
		ID:               creditNoteID(src.ID, sel, selected),
		Kind:             documents.KindCreditNote,
		Status:           documents.StatusDraft,
		Currency:         src.Currency,
		SourceDocumentID: &sourceID,
		Lines:            make([]documents.LineItem, 0, len(selected)),
	}
	for _, line := range selected {
		ret := sel.Lines[line.ID]
		note.Lines = append(note.Lines, documents.LineItem{
			ID:             uuid.NewSHA1(note.ID, line.ID[:]),
			ProductID:      line.ProductID,
			Description:    returnDescription(line.Description, ret.Reason),
			Quantity:       ret.Quantity,
			UnitAmount:     line.UnitAmount,
			DiscountRate:   cloneDecimal(line.DiscountRate),
			DiscountAmount: prorate(line.DiscountAmount, ret.Quantity, line.Quantity),
			TaxRate:        line.TaxRate,
			TaxAmount:      prorate(line.TaxAmount, ret.Quantity, line.Quantity),
			TaxMode:        line.TaxMode,
		})
	}
	return documents.Recalculate(note, opts.Calc)
}

// validateSelection returns the selected source lines in source order.
func validateSelection(src documents.Document, sel Selection, requireReason bool) ([]documents.LineItem, error) {
	known := make(map[uuid.UUID]struct{}, len(src.Lines))
	for _, line := range src.Lines {
		known[line.ID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(sel.Lines))
	for id := range sel.Lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLine, id)
		}
		if sel.Lines[id].Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: line %s", pricing.ErrInvalidQuantity, id)
		}
	}

	selected := make([]documents.LineItem, 0, len(sel.Lines))
	for _, line := range src.Lines {
		ret, ok := sel.Lines[line.ID]
		if !ok || ret.Quantity.IsZero() {
			continue
		}
		if ret.Quantity.GreaterThan(line.Quantity) {
			return nil, fmt.Errorf("%w: line %s returns %s of %s", ErrQuantityExceedsOriginal, line.ID, ret.Quantity, line.Quantity)
		}
		if err := line.CheckReturned(); err != nil {
			return nil, fmt.Errorf("line %s: %w", line.ID, err)
		}
		if ret.Quantity.GreaterThan(line.Returnable()) {
			return nil, fmt.Errorf("%w: line %s returns %s of %s", ErrQuantityExceedsOriginal, line.ID, ret.Quantity, line.Returnable())
		}
		if requireReason && strings.TrimSpace(ret.Reason) == "" {
			return nil, fmt.Errorf("%w: line %s", ErrMissingReason, line.ID)
		}
		selected = append(selected, line)
	}
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	return selected, nil
}

func creditNoteID(sourceID uuid.UUID, sel Selection, lines []documents.LineItem) uuid.UUID {
	var b strings.Builder
	b.WriteString("credit:")
	for _, line := range lines {
		ret := sel.Lines[line.ID]
		fmt.Fprintf(&b, "%s=%s;", line.ID, ret.Quantity.String())
	}
	return uuid.NewSHA1(sourceID, []byte(b.String()))
}

func returnDescription(description, reason string) string {
	reason = strings.TrimSpace(reason)
	switch {
	case reason == "":
		return description
	case description == "":
		return reason
	}
	return description + " (" + reason + ")"
}

func prorate(amount *decimal.Decimal, part, whole decimal.Decimal) *decimal.Decimal {
	if amount == nil {
		return nil
	}
	if whole.IsZero() || part.Equal(whole) {
		v := *amount
		return &v
	}
	v := amount.Mul(part).Div(whole)
	return &v
}

func cloneDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
