package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
)

// TotalsOptions defines available flags for the totals command.
type TotalsOptions struct {
	Input      io.Reader
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// DocumentSummary is the JSON response of commands returning a document.
type DocumentSummary struct {
	Document      documents.Document `json:"document"`
	AmountInWords string             `json:"amountInWords"`
}

// TotalsCommand recalculates a document and prints its figures.
func (c *DocCLI) TotalsCommand(ctx context.Context, opts TotalsOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	doc, ok := decodeDocument("totals", opts.Input, stderr)
	if !ok {
		return ExitInvalid
	}
	out, err := c.svc.Recalculate(doc)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "totals: %v\n", err)
		return ExitInvalid
	}
	c.logger.DebugContext(ctx, "document recalculated",
		slog.String("kind", string(out.Kind)),
		slog.String("id", out.ID.String()),
		slog.Int("lines", len(out.Lines)),
	)
	return c.printDocument("totals", out, opts.JSONOutput, stdout, stderr)
}

func (c *DocCLI) printDocument(cmd string, doc documents.Document, jsonOut bool, stdout, stderr io.Writer) int {
	if jsonOut {
		return writeJSON(cmd, stdout, stderr, DocumentSummary{Document: doc, AmountInWords: c.svc.AmountInWords(doc)})
	}
	renderDocumentHuman(stdout, doc, c.svc.Config().Policy.Places, c.svc.AmountInWords(doc))
	return ExitOK
}

func renderDocumentHuman(out io.Writer, doc documents.Document, places int32, inWords string) {
	_, _ = fmt.Fprintf(out, "%s %s (%s) %s\n", title(doc.Kind.Noun()), doc.ID, doc.Status, doc.Currency)
	if doc.SourceDocumentID != nil {
		_, _ = fmt.Fprintf(out, "Source: %s\n", doc.SourceDocumentID)
	}
	for i, line := range doc.Lines {
		r := line.Computed
		_, _ = fmt.Fprintf(out, " %2d. %-12s qty %s x %s  net %s  tax %s (%s)  total %s\n",
			i+1,
			line.ProductID,
			line.Quantity.String(),
			line.UnitAmount.StringFixed(places),
			r.Net.StringFixed(places),
			r.Tax.StringFixed(places),
			r.TaxMode,
			r.LineTotal.StringFixed(places),
		)
	}
	t := doc.Totals
	_, _ = fmt.Fprintf(out, "Subtotal:    %s\n", t.Subtotal.StringFixed(places))
	_, _ = fmt.Fprintf(out, "Discount:    %s\n", t.DiscountAmount.StringFixed(places))
	_, _ = fmt.Fprintf(out, "Tax:         %s\n", t.TaxAmount.StringFixed(places))
	if !t.IncludedTax.IsZero() {
		_, _ = fmt.Fprintf(out, "Incl. tax:   %s\n", t.IncludedTax.StringFixed(places))
	}
	_, _ = fmt.Fprintf(out, "Rounding:    %s\n", t.RoundingAdjustment.StringFixed(places))
	_, _ = fmt.Fprintf(out, "Total:       %s\n", t.TotalAmount.StringFixed(places))
	if doc.Kind.Payable() {
		_, _ = fmt.Fprintf(out, "Paid:        %s\n", doc.AmountPaid.StringFixed(places))
		_, _ = fmt.Fprintf(out, "Due:         %s\n", doc.AmountDue.StringFixed(places))
	}
	_, _ = fmt.Fprintf(out, "In words:    %s\n", inWords)
}
