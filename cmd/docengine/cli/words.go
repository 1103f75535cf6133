package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/backoffice-engine/internal/words"
)

// WordsOptions defines available flags for the words command.
type WordsOptions struct {
	Amount   string
	Currency string
	Stdout   io.Writer
	Stderr   io.Writer
}

// WordsCommand prints an amount in words.
func (c *DocCLI) WordsCommand(_ context.Context, opts WordsOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	amount, err := decimal.NewFromString(strings.TrimSpace(opts.Amount))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "words: invalid amount %q\n", opts.Amount)
		return ExitError
	}
	_, _ = fmt.Fprintln(stdout, words.Spell(amount, opts.Currency))
	return ExitOK
}
