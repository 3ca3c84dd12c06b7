package integration

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/erp/edigateway/internal/domain/integration"
	"github.com/erp/edigateway/internal/domain/trade"
)

// inboundDateLayouts are tried in order against an EDI-850 date_created value
var inboundDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"20060102",
}

// ParseOrderDate parses an EDI-850 date string. Values without a zone are read as UTC.
func ParseOrderDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range inboundDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MapInbound converts an EDI-850 document into a new purchase order.
// An unparseable date falls back to now; the second result reports that the
// fallback was taken. Prices are rounded to trade.MoneyScale before the total
// is summed, so the total equals the sum of the stored lines. Items are kept
// 1:1 in document order.
func MapInbound(doc integration.PurchaseOrder850, now time.Time) (*trade.PurchaseOrder, bool) {
	orderDate, ok := ParseOrderDate(doc.DateCreated)
	if !ok {
		orderDate = now.UTC()
	}

	items := make([]trade.LineItem, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = trade.LineItem{
			Sku:       item.ProductCode,
			Quantity:  item.Qty,
			UnitPrice: item.Price.Round(trade.MoneyScale),
		}
	}

	return trade.NewPurchaseOrder(doc.PoNumber, doc.SenderID, orderDate, items), !ok
}

// MapOutbound builds the EDI-810 invoice summary for a stored order.
// The invoice number is INV-{id}-{MMdd} and is not unique across same-day repeats.
func MapOutbound(order *trade.PurchaseOrder, now time.Time) integration.Invoice810 {
	amount := order.TotalAmount.StringFixed(2)
	return integration.Invoice810{
		DocumentType:        integration.InvoiceDocumentType,
		InvoiceNumber:       "INV-" + strconv.FormatInt(order.ID, 10) + "-" + now.Format("0102"),
		InvoiceDate:         now.Format("2006-01-02"),
		PurchaseOrderNumber: order.PoNumber,
		MonetarySummary: integration.MonetarySummary{
			Amount: json.Number(amount),
		},
		LineItemSummary: integration.LineItemSummary{
			NumberOfLineItems: order.LineItemCount(),
			HashTotal:         json.Number(amount),
		},
	}
}
