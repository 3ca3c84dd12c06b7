package trade

import "context"

// PurchaseOrderRepository defines the interface for purchase order persistence.
// Orders are created once and read back; there is no update or delete.
type PurchaseOrderRepository interface {
	// Create persists the order and its line items atomically and returns the assigned ID
	Create(ctx context.Context, order *PurchaseOrder) (int64, error)

	// FindAll returns every order with line items attached, in insertion order
	FindAll(ctx context.Context) ([]PurchaseOrder, error)

	// FindByID returns the order with its line items or shared.ErrNotFound
	FindByID(ctx context.Context, id int64) (*PurchaseOrder, error)
}
