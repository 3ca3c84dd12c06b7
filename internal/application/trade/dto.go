package trade

import (
	"time"

	"github.com/erp/edigateway/internal/domain/trade"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts render as exact JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// PurchaseOrderResponse represents a stored purchase order in API responses
type PurchaseOrderResponse struct {
	ID          int64              `json:"id"`
	PoNumber    string             `json:"po_number"`
	PartnerID   string             `json:"partner_id"`
	OrderDate   time.Time          `json:"order_date"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	LineItems   []LineItemResponse `json:"line_items"`
}

// LineItemResponse represents a purchase order line in API responses
type LineItemResponse struct {
	ID              int64           `json:"id"`
	Sku             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	PurchaseOrderID int64           `json:"purchase_order_id"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a response DTO
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]LineItemResponse, len(order.LineItems))
	for i, item := range order.LineItems {
		items[i] = LineItemResponse{
			ID:              item.ID,
			Sku:             item.Sku,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			PurchaseOrderID: item.PurchaseOrderID,
		}
	}
	return PurchaseOrderResponse{
		ID:          order.ID,
		PoNumber:    order.PoNumber,
		PartnerID:   order.PartnerID,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		LineItems:   items,
	}
}

// ToPurchaseOrderResponses converts a slice of orders; never returns nil
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}
