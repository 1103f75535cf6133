package gate

import "github.com/odyssey-erp/backoffice-engine/internal/documents"

// Capability names granted to users.
const (
	// Purchase order capabilities
	CapPurchaseOrderView   = "purchase_orders_view"
	CapPurchaseOrderCreate = "purchase_orders_create"
	CapPurchaseOrderEdit   = "purchase_orders_edit"
	CapPurchaseOrderDelete = "purchase_orders_delete"

	// GRN capabilities
	CapGRNView   = "grn_view"
	CapGRNCreate = "grn_create"
	CapGRNEdit   = "grn_edit"
	CapGRNDelete = "grn_delete"

	// Sales order capabilities
	CapSalesOrderView   = "sale_orders_view"
	CapSalesOrderCreate = "sale_orders_create"
	CapSalesOrderEdit   = "sale_orders_edit"
	CapSalesOrderDelete = "sale_orders_delete"

	// Sale invoice capabilities
	CapSaleInvoiceView   = "sale_invoices_view"
	CapSaleInvoiceCreate = "sale_invoices_create"
	CapSaleInvoiceEdit   = "sale_invoices_edit"
	CapSaleInvoiceDelete = "sale_invoices_delete"

	// Credit note capabilities
	CapCreditNoteView   = "credit_notes_view"
	CapCreditNoteCreate = "credit_notes_create"
	CapCreditNoteEdit   = "credit_notes_edit"
	CapCreditNoteDelete = "credit_notes_delete"

	// Wholesale capabilities
	CapWholesaleOrderView   = "wholesale_orders_view"
	CapWholesaleOrderCreate = "wholesale_orders_create"
	CapWholesaleOrderEdit   = "wholesale_orders_edit"
	CapWholesaleOrderDelete = "wholesale_orders_delete"
	CapWholesaleBillView    = "wholesale_billing_view"
	CapWholesaleBillCreate  = "wholesale_billing_create"
	CapWholesaleBillEdit    = "wholesale_billing_edit"
	CapWholesaleBillDelete  = "wholesale_billing_delete"
)

var capabilityPrefix = map[documents.Kind]string{
	documents.KindPurchaseOrder:  "purchase_orders",
	documents.KindGRN:            "grn",
	documents.KindSalesOrder:     "sale_orders",
	documents.KindSaleInvoice:    "sale_invoices",
	documents.KindCreditNote:     "credit_notes",
	documents.KindWholesaleOrder: "wholesale_orders",
	documents.KindWholesaleBill:  "wholesale_billing",
}

// RequiredCapability names the capability action on kind needs. Printing
// needs view access and any return needs the right to create credit notes.
func RequiredCapability(action Action, kind documents.Kind) string {
	if action == ActionReturn {
		return CapCreditNoteCreate
	}
	prefix, ok := capabilityPrefix[kind]
	if !ok {
		return ""
	}
	verb := string(action)
	if action == ActionPrint {
		verb = string(ActionView)
	}
	return prefix + "_" + verb
}

// Scopes lists every capability known to the gate.
func Scopes() []string {
	return []string{
		CapPurchaseOrderView,
		CapPurchaseOrderCreate,
		CapPurchaseOrderEdit,
		CapPurchaseOrderDelete,
		CapGRNView,
		CapGRNCreate,
		CapGRNEdit,
		CapGRNDelete,
		CapSalesOrderView,
		CapSalesOrderCreate,
		CapSalesOrderEdit,
		CapSalesOrderDelete,
		CapSaleInvoiceView,
		CapSaleInvoiceCreate,
		CapSaleInvoiceEdit,
		CapSaleInvoiceDelete,
		CapCreditNoteView,
		CapCreditNoteCreate,
		CapCreditNoteEdit,
		CapCreditNoteDelete,
		CapWholesaleOrderView,
		CapWholesaleOrderCreate,
		CapWholesaleOrderEdit,
		CapWholesaleOrderDelete,
		CapWholesaleBillView,
		CapWholesaleBillCreate,
		CapWholesaleBillEdit,
		CapWholesaleBillDelete,
	}
}
