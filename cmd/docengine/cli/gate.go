package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/odyssey-erp/backoffice-engine/internal/capabilities"
	"github.com/odyssey-erp/backoffice-engine/internal/gate"
)

// GateOptions defines available flags for the gate command. Capabilities
// come either from Capabilities or from User looked up in GrantsPath.
type GateOptions struct {
	Input        io.Reader
	Action       string
	Capabilities string
	User         string
	GrantsPath   string
	JSONOutput   bool
	Stdout       io.Writer
	Stderr       io.Writer
}

// GateSummary is the JSON response of the gate command.
type GateSummary struct {
	Kind      string                        `json:"kind"`
	Status    string                        `json:"status"`
	Decisions map[gate.Action]gate.Decision `json:"decisions"`
	Allowed   []gate.Action                 `json:"allowed"`
}

// GateCommand evaluates one or all actions against a document.
func (c *DocCLI) GateCommand(ctx context.Context, opts GateOptions) int {
	stdout, stderr := defaultWriters(opts.Stdout, opts.Stderr)
	doc, ok := decodeDocument("gate", opts.Input, stderr)
	if !ok {
		return ExitInvalid
	}
	caps, err := c.resolveCapabilities(ctx, opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "gate: %v\n", err)
		return ExitError
	}

	actions := gate.Actions()
	if opts.Action != "" {
		actions = []gate.Action{gate.Action(opts.Action)}
	}
	summary := GateSummary{
		Kind:      string(doc.Kind),
		Status:    string(doc.Status),
		Decisions: make(map[gate.Action]gate.Decision, len(actions)),
		Allowed:   c.svc.AllowedActions(doc, caps),
	}
	denied := false
	for _, action := range actions {
		decision := c.svc.Decide(action, doc, caps)
		summary.Decisions[action] = decision
		if !decision.Allowed {
			denied = true
		}
	}

	if opts.JSONOutput {
		if code := writeJSON("gate", stdout, stderr, summary); code != ExitOK {
			return code
		}
	} else {
		_, _ = fmt.Fprintf(stdout, "%s (%s)\n", title(doc.Kind.Noun()), doc.Status)
		for _, action := range actions {
			decision := summary.Decisions[action]
			if decision.Allowed {
				_, _ = fmt.Fprintf(stdout, " - %-6s allowed\n", action)
				continue
			}
			_, _ = fmt.Fprintf(stdout, " - %-6s denied: %s\n", action, decision.Reason)
		}
	}
	if opts.Action != "" && denied {
		return ExitDenied
	}
	return ExitOK
}

func (c *DocCLI) resolveCapabilities(ctx context.Context, opts GateOptions) (gate.Capabilities, error) {
	if opts.User == "" {
		return gate.ParseCapabilities(opts.Capabilities), nil
	}
	if opts.GrantsPath == "" {
		return gate.Capabilities{}, errors.New("--grants is required with --user")
	}
	raw, err := os.ReadFile(opts.GrantsPath)
	if err != nil {
		return gate.Capabilities{}, err
	}
	var grants capabilities.StaticLoader
	if err := json.Unmarshal(raw, &grants); err != nil {
		return gate.Capabilities{}, fmt.Errorf("decode grants: %w", err)
	}
	store := c.store
	if store == nil {
		store = capabilities.NewMemoryStore(0, nil)
	}
	return capabilities.NewResolver(store, grants).Resolve(ctx, opts.User)
}
