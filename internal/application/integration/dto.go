package integration

import (
	"encoding/json"

	"github.com/erp/edigateway/internal/domain/integration"
	"github.com/shopspring/decimal"
)

// Inbound850Request is the webhook body of an EDI-850 purchase order.
// document_id is accepted for traceability but not stored.
type Inbound850Request struct {
	DocumentID  string           `json:"document_id" binding:"omitempty,max=100"`
	SenderID    string           `json:"sender_id" binding:"required,max=100"`
	PoNumber    string           `json:"po_number" binding:"required,max=100"`
	DateCreated string           `json:"date_created" binding:"required"`
	Items       []Inbound850Item `json:"items" binding:"required,dive"`
}

// Inbound850Item is one product line of the webhook body
type Inbound850Item struct {
	ProductCode string          `json:"product_code" binding:"required,max=100"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
}

// ToDocument converts the request into the domain EDI-850 document
func (r Inbound850Request) ToDocument() integration.PurchaseOrder850 {
	items := make([]integration.PurchaseOrder850Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = integration.PurchaseOrder850Item{
			ProductCode: item.ProductCode,
			Qty:         item.Qty,
			Price:       item.Price,
		}
	}
	return integration.PurchaseOrder850{
		DocumentID:  r.DocumentID,
		SenderID:    r.SenderID,
		PoNumber:    r.PoNumber,
		DateCreated: r.DateCreated,
		Items:       items,
	}
}

// WebhookAckResponse acknowledges an accepted EDI-850 document
type WebhookAckResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ERPReferenceID int64  `json:"erp_reference_id"`
}

// SendInvoiceResponse confirms a delivered invoice and echoes what was sent
type SendInvoiceResponse struct {
	Message     string          `json:"message"`
	SentPayload json.RawMessage `json:"sent_payload"`
}

// NewWebhookAck builds the acknowledgement for a stored order
func NewWebhookAck(orderID int64) WebhookAckResponse {
	return WebhookAckResponse{
		Status:         "success",
		Message:        "EDI 850 Processed Successfully",
		ERPReferenceID: orderID,
	}
}

// NewSendInvoiceResponse builds the confirmation for an accepted dispatch
func NewSendInvoiceResponse(result *integration.DispatchResult) SendInvoiceResponse {
	return SendInvoiceResponse{
		Message:     "Invoice sent successfully",
		SentPayload: result.Payload,
	}
}
