package integration

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// InvoiceDocumentType is the fixed X12 transaction set code for invoices
const InvoiceDocumentType = "810"

// PurchaseOrder850 is an inbound EDI-850 purchase order document
type PurchaseOrder850 struct {
	DocumentID  string
	SenderID    string
	PoNumber    string
	DateCreated string
	Items       []PurchaseOrder850Item
}

// PurchaseOrder850Item is one product line of an inbound EDI-850 document
type PurchaseOrder850Item struct {
	ProductCode string
	Qty         int
	Price       decimal.Decimal
}

// Invoice810 is the outbound EDI-810 invoice summary.
// Individual line items are not transmitted, only aggregate summaries.
type Invoice810 struct {
	DocumentType        string          `json:"documentType"`
	InvoiceNumber       string          `json:"invoiceNumber"`
	InvoiceDate         string          `json:"invoiceDate"`
	PurchaseOrderNumber string          `json:"purchaseOrderNumber"`
	MonetarySummary     MonetarySummary `json:"monetarySummary"`
	LineItemSummary     LineItemSummary `json:"lineItemSummary"`
}

// MonetarySummary carries the invoice amount
type MonetarySummary struct {
	Amount json.Number `json:"amount"`
}

// LineItemSummary carries the line count and the hash total.
// HashTotal equals the invoice amount; it is not a checksum.
type LineItemSummary struct {
	NumberOfLineItems int         `json:"numberOfLineItems"`
	HashTotal         json.Number `json:"hashTotal"`
}
