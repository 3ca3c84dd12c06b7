package models

import (
	"time"

	"github.com/erp/edigateway/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	PoNumber    string          `gorm:"column:po_number;type:varchar(100);not null"`
	PartnerID   string          `gorm:"column:partner_id;type:varchar(100);not null"`
	OrderDate   time.Time       `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	LineItems   []LineItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
// Line items are included only when they were preloaded.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	items := make([]trade.LineItem, len(m.LineItems))
	for i := range m.LineItems {
		items[i] = m.LineItems[i].ToDomain()
	}
	return &trade.PurchaseOrder{
		ID:          m.ID,
		PoNumber:    m.PoNumber,
		PartnerID:   m.PartnerID,
		OrderDate:   m.OrderDate.UTC(),
		TotalAmount: m.TotalAmount,
		LineItems:   items,
	}
}

// PurchaseOrderModelFromDomain builds a persistence model, including line items, from o.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		ID:          o.ID,
		PoNumber:    o.PoNumber,
		PartnerID:   o.PartnerID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		LineItems:   make([]LineItemModel, len(o.LineItems)),
	}
	for i, item := range o.LineItems {
		m.LineItems[i] = LineItemModelFromDomain(item)
	}
	return m
}

// LineItemModel is the persistence model for a purchase order line.
type LineItemModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Sku             string          `gorm:"type:varchar(100);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchaseOrderID int64           `gorm:"not null;index:idx_po_line_items_purchase_order_id"`
}

func (LineItemModel) TableName() string {
	return "po_line_items"
}

func (m *LineItemModel) ToDomain() trade.LineItem {
	return trade.LineItem{
		ID:              m.ID,
		Sku:             m.Sku,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		PurchaseOrderID: m.PurchaseOrderID,
	}
}

func LineItemModelFromDomain(l trade.LineItem) LineItemModel {
	return LineItemModel{
		ID:              l.ID,
		Sku:             l.Sku,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		PurchaseOrderID: l.PurchaseOrderID,
	}
}

// AllModels lists every model in dependency order, for AutoMigrate in tests.
func AllModels() []any {
	return []any{&PurchaseOrderModel{}, &LineItemModel{}}
}
