package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice-engine/internal/documents"
)

func allCaps() Capabilities {
	return NewCapabilities(Scopes()...)
}

func TestDecidePaidInvoiceEdit(t *testing.T) {
	decision := Decide(ActionEdit, documents.KindSaleInvoice, documents.StatusPaid, allCaps())
	require.False(t, decision.Allowed)
	require.Equal(t, "cannot edit paid invoice", decision.Reason)
}

func TestDecideMissingCapability(t *testing.T) {
	decision := Decide(ActionEdit, documents.KindSaleInvoice, documents.StatusDraft, NewCapabilities(CapSaleInvoiceView))
	require.False(t, decision.Allowed)
	require.Equal(t, "missing capability sale_invoices_edit", decision.Reason)

	decision = Decide(ActionEdit, documents.KindSaleInvoice, documents.StatusDraft, NewCapabilities(" SALE_INVOICES_EDIT "))
	require.True(t, decision.Allowed)
	require.Empty(t, decision.Reason)
}

func TestSaleInvoicePolicy(t *testing.T) {
	caps := allCaps()
	cases := []struct {
		action  Action
		status  documents.Status
		allowed bool
	}{
		{ActionEdit, documents.StatusDraft, true},
		{ActionEdit, documents.StatusSent, true},
		{ActionEdit, documents.StatusPartial, true},
		{ActionEdit, documents.StatusOverdue, false},
		{ActionEdit, documents.StatusCancelled, false},
		{ActionDelete, documents.StatusDraft, true},
		{ActionDelete, documents.StatusSent, false},
		{ActionPrint, documents.StatusDraft, false},
		{ActionPrint, documents.StatusPaid, true},
		{ActionPrint, documents.StatusCancelled, true},
		{ActionView, documents.StatusDraft, false},
		{ActionReturn, documents.StatusPaid, true},
		{ActionReturn, documents.StatusPartial, false},
	}
	for _, tc := range cases {
		got := IsAllowed(tc.action, documents.KindSaleInvoice, tc.status, caps)
		require.Equal(t, tc.allowed, got, "%s on %s", tc.action, tc.status)
	}
}

func TestGRNReturnOnlyWhenCompleted(t *testing.T) {
	caps := allCaps()
	require.True(t, IsAllowed(ActionReturn, documents.KindGRN, documents.StatusCompleted, caps))
	require.False(t, IsAllowed(ActionReturn, documents.KindGRN, documents.StatusPartial, caps))
	require.False(t, IsAllowed(ActionReturn, documents.KindGRN, documents.StatusDraft, caps))

	decision := Decide(ActionReturn, documents.KindGRN, documents.StatusCompleted, NewCapabilities(CapGRNView))
	require.Equal(t, "missing capability credit_notes_create", decision.Reason)
}

func TestDecideUnknownKindOrStatus(t *testing.T) {
	require.False(t, IsAllowed(ActionView, "quotation", documents.StatusDraft, allCaps()))
	decision := Decide(ActionView, documents.KindGRN, documents.StatusPaid, allCaps())
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "unknown GRN status")
}

func TestGateIsMonotonicInCapabilities(t *testing.T) {
	granted := NewCapabilities(CapSaleInvoiceView, CapGRNEdit)
	superset := granted.With(Scopes()...)
	for _, kind := range documents.Kinds() {
		machine, err := documents.MachineFor(kind)
		require.NoError(t, err)
		for _, status := range machine.Statuses() {
			for _, action := range Actions() {
				if IsAllowed(action, kind, status, granted) {
					require.True(t, IsAllowed(action, kind, status, superset), "%s %s %s", kind, status, action)
				}
			}
		}
	}
}

func TestAllowedActions(t *testing.T) {
	actions := AllowedActions(documents.KindSaleInvoice, documents.StatusPaid, allCaps())
	require.Equal(t, []Action{ActionView, ActionPrint, ActionReturn}, actions)

	require.Empty(t, AllowedActions(documents.KindSaleInvoice, documents.StatusPaid, NewCapabilities()))
}

func TestCapabilities(t *testing.T) {
	caps := ParseCapabilities("grn_view, GRN_EDIT,,grn_view")
	require.Equal(t, 2, caps.Len())
	require.Equal(t, []string{"grn_edit", "grn_view"}, caps.List())
	require.True(t, caps.HasAll(CapGRNView, CapGRNEdit))
	require.False(t, caps.Has(""))
	require.Equal(t, CapWholesaleBillView, RequiredCapability(ActionPrint, documents.KindWholesaleBill))
}
