package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/odyssey-erp/backoffice-engine/internal/capabilities"
	"github.com/odyssey-erp/backoffice-engine/internal/documents"
	"github.com/odyssey-erp/backoffice-engine/internal/engine"
)

// Exit codes shared by every command.
const (
	ExitOK      = 0
	ExitError   = 1
	ExitInvalid = 2
	ExitDenied  = 10
)

// DocCLI runs document operations from the command line.
type DocCLI struct {
	svc    *engine.Service
	store  capabilities.Store
	logger *slog.Logger
}

// New constructs the CLI. store caches capability lookups for the gate
// command.
func New(svc *engine.Service, store capabilities.Store, logger *slog.Logger) *DocCLI {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DocCLI{svc: svc, store: store, logger: logger}
}

const usage = `usage: docengine <command> [flags]

commands:
  totals      recalculate a document
  transition  move a document to another status
  gate        check which actions are allowed on a document
  return      derive a credit note from a paid document
  pay         record a payment
  words       spell an amount
`

// Run dispatches args to a command and returns the process exit code.
func (c *DocCLI) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return ExitError
	}
	name, rest := args[0], args[1:]
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "-", "document JSON file, - for stdin")
	jsonOut := fs.Bool("json", false, "print JSON")

	switch name {
	case "totals":
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.withInput(*file, stdin, stderr, name, func(in io.Reader) int {
			return c.TotalsCommand(ctx, TotalsOptions{Input: in, JSONOutput: *jsonOut, Stdout: stdout, Stderr: stderr})
		})
	case "transition":
		to := fs.String("to", "", "target status")
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.withInput(*file, stdin, stderr, name, func(in io.Reader) int {
			return c.TransitionCommand(ctx, TransitionOptions{Input: in, To: *to, JSONOutput: *jsonOut, Stdout: stdout, Stderr: stderr})
		})
	case "gate":
		action := fs.String("action", "", "action to check; all actions when empty")
		caps := fs.String("caps", "", "comma separated capabilities")
		user := fs.String("user", "", "user whose capabilities are resolved from --grants")
		grants := fs.String("grants", "", "JSON file mapping users to capabilities")
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.withInput(*file, stdin, stderr, name, func(in io.Reader) int {
			return c.GateCommand(ctx, GateOptions{
				Input:        in,
				Action:       *action,
				Capabilities: *caps,
				User:         *user,
				GrantsPath:   *grants,
				JSONOutput:   *jsonOut,
				Stdout:       stdout,
				Stderr:       stderr,
			})
		})
	case "return":
		selection := fs.String("selection", "", "selection JSON file")
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.withInput(*file, stdin, stderr, name, func(in io.Reader) int {
			return c.withInput(*selection, nil, stderr, name, func(sel io.Reader) int {
				return c.ReturnCommand(ctx, ReturnOptions{Input: in, Selection: sel, JSONOutput: *jsonOut, Stdout: stdout, Stderr: stderr})
			})
		})
	case "pay":
		amount := fs.String("amount", "", "payment amount")
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.withInput(*file, stdin, stderr, name, func(in io.Reader) int {
			return c.PayCommand(ctx, PayOptions{Input: in, Amount: *amount, JSONOutput: *jsonOut, Stdout: stdout, Stderr: stderr})
		})
	case "words":
		currency := fs.String("currency", c.svc.Config().Currency, "ISO currency code")
		if err := fs.Parse(rest); err != nil {
			return ExitError
		}
		return c.WordsCommand(ctx, WordsOptions{Amount: fs.Arg(0), Currency: *currency, Stdout: stdout, Stderr: stderr})
	}
	_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
	return ExitError
}

func (c *DocCLI) withInput(path string, stdin io.Reader, stderr io.Writer, cmd string, fn func(io.Reader) int) int {
	if path == "" {
		_, _ = fmt.Fprintf(stderr, "%s: input file required\n", cmd)
		return ExitError
	}
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return fn(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return ExitError
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("close input", slog.String("path", path), slog.Any("error", err))
		}
	}()
	return fn(f)
}

func defaultWriters(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}

func decodeDocument(cmd string, in io.Reader, stderr io.Writer) (documents.Document, bool) {
	doc, err := documents.Decode(in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return documents.Document{}, false
	}
	return doc, true
}

func writeJSON(cmd string, out, stderr io.Writer, v any) int {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: encode json: %v\n", cmd, err)
		return ExitError
	}
	return ExitOK
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
