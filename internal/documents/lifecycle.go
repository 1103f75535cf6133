package documents

import (
	"fmt"
)

// Machine is the status graph of one document kind.
type Machine struct {
	kind     Kind
	initial  Status
	terminal map[Status]struct{}
	edges    map[Status][]Status
}

type machineDef struct {
	initial  Status
	terminal []Status
	edges    map[Status][]Status
}

var machines = map[Kind]machineDef{
	KindPurchaseOrder: {
		initial:  StatusDraft,
		terminal: []Status{StatusReceived, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:    {StatusPending, StatusCancelled},
			StatusPending:  {StatusApproved, StatusDraft, StatusCancelled},
			StatusApproved: {StatusReceived, StatusCancelled},
		},
	},
	KindGRN: {
		initial:  StatusDraft,
		terminal: []Status{StatusCompleted, StatusRejected},
		edges: map[Status][]Status{
			StatusDraft:   {StatusPartial, StatusCompleted, StatusRejected},
			StatusPartial: {StatusCompleted, StatusRejected},
		},
	},
	KindSalesOrder: {
		initial:  StatusDraft,
		terminal: []Status{StatusFulfilled, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:    {StatusPending, StatusCancelled},
			StatusPending:  {StatusApproved, StatusDraft, StatusCancelled},
			StatusApproved: {StatusSent, StatusCancelled},
			StatusSent:     {StatusPartial, StatusFulfilled, StatusOverdue, StatusCancelled},
			StatusPartial:  {StatusFulfilled, StatusOverdue},
			StatusOverdue:  {StatusPartial, StatusFulfilled, StatusCancelled},
		},
	},
	KindSaleInvoice: {
		initial:  StatusDraft,
		terminal: []Status{StatusPaid, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:   {StatusSent, StatusCancelled},
			StatusSent:    {StatusPartial, StatusPaid, StatusOverdue, StatusCancelled},
			StatusPartial: {StatusPaid, StatusOverdue},
			StatusOverdue: {StatusPartial, StatusPaid, StatusCancelled},
		},
	},
	KindCreditNote: {
		initial:  StatusDraft,
		terminal: []Status{StatusProcessed, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:    {StatusPending, StatusCancelled},
			StatusPending:  {StatusApproved, StatusDraft, StatusCancelled},
			StatusApproved: {StatusProcessed, StatusCancelled},
		},
	},
	KindWholesaleOrder: {
		initial:  StatusDraft,
		terminal: []Status{StatusReturned, StatusExchanged, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:             {StatusConfirmed, StatusCancelled},
			StatusConfirmed:         {StatusProcessing, StatusCancelled},
			StatusProcessing:        {StatusShipped, StatusCancelled},
			StatusShipped:           {StatusDelivered},
			StatusDelivered:         {StatusPartiallyReturned, StatusReturned, StatusExchanged},
			StatusPartiallyReturned: {StatusReturned, StatusExchanged},
		},
	},
	KindWholesaleBill: {
		initial:  StatusDraft,
		terminal: []Status{StatusPaid, StatusCancelled},
		edges: map[Status][]Status{
			StatusDraft:   {StatusPending, StatusCancelled},
			StatusPending: {StatusPaid, StatusOverdue, StatusCancelled},
			StatusOverdue: {StatusPaid, StatusCancelled},
		},
	},
}

// MachineFor returns the status graph of kind.
func MachineFor(kind Kind) (Machine, error) {
	def, ok := machines[kind]
	if !ok {
		return Machine{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	terminal := make(map[Status]struct{}, len(def.terminal))
	for _, s := range def.terminal {
		terminal[s] = struct{}{}
	}
	return Machine{kind: kind, initial: def.initial, terminal: terminal, edges: def.edges}, nil
}

// Kind returns the document kind of the machine.
func (m Machine) Kind() Kind {
	return m.kind
}

// Initial returns the status new documents start in.
func (m Machine) Initial() Status {
	return m.initial
}

// IsTerminal reports whether no transition leaves s.
func (m Machine) IsTerminal(s Status) bool {
	_, ok := m.terminal[s]
	return ok
}

// Statuses lists every status of the kind, initial first.
func (m Machine) Statuses() []Status {
	out := []Status{m.initial}
	for _, s := range allStatuses {
		if s != m.initial && m.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether s belongs to the kind.
func (m Machine) Has(s Status) bool {
	if s == m.initial || m.IsTerminal(s) {
		return true
	}
	if _, ok := m.edges[s]; ok {
		return true
	}
	for _, targets := range m.edges {
		for _, t := range targets {
			if t == s {
				return true
			}
		}
	}
	return false
}

// Next lists the statuses reachable from s in one step.
func (m Machine) Next(s Status) []Status {
	targets := m.edges[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from -> to is in the table.
func (m Machine) CanTransition(from, to Status) bool {
	for _, t := range m.edges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Validate returns nil for a legal transition and a wrapped
// ErrInvalidTransition or ErrUnknownStatus otherwise.
func (m Machine) Validate(from, to Status) error {
	if !m.Has(from) {
		return fmt.Errorf("%w: %q is not a %s status", ErrUnknownStatus, from, m.kind.Noun())
	}
	if !m.Has(to) {
		return fmt.Errorf("%w: %q is not a %s status", ErrUnknownStatus, to, m.kind.Noun())
	}
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, m.kind.Noun(), from, to)
	}
	return nil
}

// Transition moves doc to status to. On failure doc is left untouched.
func Transition(doc *Document, to Status) error {
	m, err := MachineFor(doc.Kind)
	if err != nil {
		return err
	}
	if err := m.Validate(doc.Status, to); err != nil {
		return err
	}
	doc.Status = to
	return nil
}

var allStatuses = []Status{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusConfirmed,
	StatusProcessing,
	StatusSent,
	StatusShipped,
	StatusDelivered,
	StatusPartial,
	StatusPartiallyReturned,
	StatusOverdue,
	StatusReceived,
	StatusCompleted,
	StatusFulfilled,
	StatusPaid,
	StatusProcessed,
	StatusReturned,
	StatusExchanged,
	StatusRejected,
	StatusCancelled,
}
