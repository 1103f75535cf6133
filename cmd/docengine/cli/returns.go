package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odyssey-erp/backoffice-engine/internal/returns"
)

// ReturnOptions defines available flags for the return command.
type ReturnOptions struct {
	Input      io.Reader
	Selection  io.Reader
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ReturnCommand derives a credit note draft from the selected quantities.
// The selection may omit sourceDocumentId; it then targets the input.
func (c *DocCLI) ReturnCommand(ctx context.Context, opts ReturnOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	src, ok := decodeDocument("return", opts.Input, stderr)
	if !ok {
		return ExitInvalid
	}
	var sel returns.Selection
	if err := json.NewDecoder(opts.Selection).Decode(&sel); err != nil {
		_, _ = fmt.Fprintf(stderr, "return: decode selection: %v\n", err)
		return ExitInvalid
	}
	if sel.SourceDocumentID == uuid.Nil {
		sel.SourceDocumentID = src.ID
	}
	note, err := c.svc.DeriveCreditNote(src, sel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "return: %v\n", err)
		return ExitInvalid
	}
	c.logger.InfoContext(ctx, "credit note derived",
		slog.String("source", src.ID.String()),
		slog.String("credit_note", note.ID.String()),
		slog.String("total", note.Totals.TotalAmount.String()),
	)
	return c.printDocument("return", note, opts.JSONOutput, stdout, stderr)
}
