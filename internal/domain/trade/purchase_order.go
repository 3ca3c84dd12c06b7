package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for prices and totals
const MoneyScale = 4

// LineItem is a single product line owned by a PurchaseOrder
type LineItem struct {
	ID              int64
	Sku             string
	Quantity        int
	UnitPrice       decimal.Decimal
	PurchaseOrderID int64
}

// Amount returns quantity multiplied by unit price
func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PurchaseOrder is the aggregate root for an accepted EDI-850 document.
// It is immutable once stored; TotalAmount is fixed at creation.
type PurchaseOrder struct {
	ID          int64
	PoNumber    string
	PartnerID   string
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	LineItems   []LineItem
}

// NewPurchaseOrder creates a purchase order and computes its total from the line items.
// An empty item list yields a zero total.
func NewPurchaseOrder(poNumber, partnerID string, orderDate time.Time, items []LineItem) *PurchaseOrder {
	lines := make([]LineItem, len(items))
	copy(lines, items)
	return &PurchaseOrder{
		PoNumber:    poNumber,
		PartnerID:   partnerID,
		OrderDate:   orderDate,
		TotalAmount: SumLineItems(lines),
		LineItems:   lines,
	}
}

// SumLineItems returns the sum of quantity * unit price across items
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}

// LineItemCount returns the number of line items on the order
func (o *PurchaseOrder) LineItemCount() int {
	return len(o.LineItems)
}

// AssignID sets the store-assigned identifier on the order and its line items' back-reference.
func (o *PurchaseOrder) AssignID(id int64) {
	o.ID = id
	for i := range o.LineItems {
		o.LineItems[i].PurchaseOrderID = id
	}
}
