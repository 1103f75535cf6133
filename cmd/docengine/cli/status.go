package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
)

// TransitionOptions defines available flags for the transition command.
type TransitionOptions struct {
	Input      io.Reader
	To         string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// TransitionCommand validates and applies a status change.
func (c *DocCLI) TransitionCommand(ctx context.Context, opts TransitionOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	if strings.TrimSpace(opts.To) == "" {
		_, _ = fmt.Fprintln(stderr, "transition: --to is required")
		return ExitError
	}
	doc, ok := decodeDocument("transition", opts.Input, stderr)
	if !ok {
		return ExitInvalid
	}
	doc, err := c.svc.Recalculate(doc)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "transition: %v\n", err)
		return ExitInvalid
	}
	from := doc.Status
	out, err := c.svc.Transition(doc, documents.Status(strings.ToLower(strings.TrimSpace(opts.To))))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "transition: %v\n", err)
		return ExitInvalid
	}
	c.logger.InfoContext(ctx, "status changed",
		slog.String("kind", string(out.Kind)),
		slog.String("from", string(from)),
		slog.String("to", string(out.Status)),
	)
	return c.printDocument("transition", out, opts.JSONOutput, stdout, stderr)
}

// PayOptions defines available flags for the pay command.
type PayOptions struct {
	Input      io.Reader
	Amount     string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// PayCommand records a payment against an invoice or wholesale bill.
func (c *DocCLI) PayCommand(ctx context.Context, opts PayOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	amount, err := decimal.NewFromString(strings.TrimSpace(opts.Amount))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "pay: invalid amount %q\n", opts.Amount)
		return ExitError
	}
	doc, ok := decodeDocument("pay", opts.Input, stderr)
	if !ok {
		return ExitInvalid
	}
	out, err := c.svc.RecordPayment(doc, amount)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "pay: %v\n", err)
		return ExitInvalid
	}
	c.logger.InfoContext(ctx, "payment recorded",
		slog.String("id", out.ID.String()),
		slog.String("amount", amount.String()),
		slog.String("status", string(out.Status)),
	)
	return c.printDocument("pay", out, opts.JSONOutput, stdout, stderr)
}
