// Package gate decides whether an action may be performed on a document.
// Both the caller's capabilities and the document's status must allow it.
package gate

import (
	"fmt"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
)

// Action is a user operation on an existing document.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionPrint  Action = "print"
	ActionView   Action = "view"
	ActionReturn Action = "return"
)

// Actions lists every action in display order.
func Actions() []Action {
	return []Action{ActionView, ActionPrint, ActionEdit, ActionDelete, ActionReturn}
}

// Decision is the outcome of a gate check. Reason is empty when allowed.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// rule lists the statuses an action is allowed in. except inverts the list.
type rule struct {
	statuses []documents.Status
	except   bool
}

func only(s ...documents.Status) rule   { return rule{statuses: s} }
func except(s ...documents.Status) rule { return rule{statuses: s, except: true} }

var anyStatus = except()

func (r rule) allows(s documents.Status) bool {
	for _, candidate := range r.statuses {
		if candidate == s {
			return !r.except
		}
	}
	return r.except
}

var policies = map[documents.Kind]map[Action]rule{
	documents.KindPurchaseOrder: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusPending),
		ActionDelete: only(documents.StatusDraft, documents.StatusPending),
		ActionPrint:  except(documents.StatusDraft, documents.StatusPending),
		ActionView:   except(documents.StatusDraft, documents.StatusPending),
	},
	documents.KindGRN: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusPartial),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   anyStatus,
		ActionReturn: only(documents.StatusCompleted),
	},
	documents.KindSalesOrder: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusPending),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   anyStatus,
	},
	documents.KindSaleInvoice: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusSent, documents.StatusPartial),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   except(documents.StatusDraft),
		ActionReturn: only(documents.StatusPaid),
	},
	documents.KindCreditNote: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusPending),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   anyStatus,
	},
	documents.KindWholesaleOrder: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusConfirmed),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   anyStatus,
		ActionReturn: only(documents.StatusDelivered, documents.StatusPartiallyReturned),
	},
	documents.KindWholesaleBill: {
		ActionEdit:   only(documents.StatusDraft, documents.StatusPending, documents.StatusOverdue),
		ActionDelete: only(documents.StatusDraft),
		ActionPrint:  except(documents.StatusDraft),
		ActionView:   anyStatus,
		ActionReturn: only(documents.StatusPending, documents.StatusPaid, documents.StatusOverdue),
	},
}

// Decide evaluates action against the status policy of kind and the granted
// capabilities. The status check is reported first.
func Decide(action Action, kind documents.Kind, status documents.Status, caps Capabilities) Decision {
	rules, ok := policies[kind]
	if !ok {
		return Decision{Reason: fmt.Sprintf("unknown document kind %q", kind)}
	}
	machine, err := documents.MachineFor(kind)
	if err != nil || !machine.Has(status) {
		return Decision{Reason: fmt.Sprintf("unknown %s status %q", kind.Noun(), status)}
	}
	r, ok := rules[action]
	if !ok || !r.allows(status) {
		return Decision{Reason: fmt.Sprintf("cannot %s %s %s", action, status, kind.Noun())}
	}
	required := RequiredCapability(action, kind)
	if !caps.Has(required) {
		return Decision{Reason: "missing capability " + required}
	}
	return Decision{Allowed: true}
}

// IsAllowed is Decide without the reason.
func IsAllowed(action Action, kind documents.Kind, status documents.Status, caps Capabilities) bool {
	return Decide(action, kind, status, caps).Allowed
}

// AllowedActions lists the actions permitted on a document in display order.
func AllowedActions(kind documents.Kind, status documents.Status, caps Capabilities) []Action {
	out := make([]Action, 0, len(Actions()))
	for _, action := range Actions() {
		if IsAllowed(action, kind, status, caps) {
			out = append(out, action)
		}
	}
	return out
}
