package persistence

import (
	"context"
	"errors"

	"github.com/erp/edigateway/internal/domain/shared"
	"github.com/erp/edigateway/internal/domain/trade"
	"github.com/erp/edigateway/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// Create inserts the order header and then its line items in one transaction.
// On success the generated IDs are written back to order.
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) (int64, error) {
	model := models.PurchaseOrderModelFromDomain(order)
	items := model.LineItems

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LineItems").Create(model).Error; err != nil {
			return shared.NewStorageError("create purchase order", err)
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].PurchaseOrderID = model.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return shared.NewStorageError("create line items", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	order.AssignID(model.ID)
	for i := range items {
		order.LineItems[i].ID = items[i].ID
	}
	return model.ID, nil
}

// FindAll returns every order with its line items, both ordered by ID.
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context) ([]trade.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems", orderByID).
		Order("id").
		Find(&orderModels).Error; err != nil {
		return nil, shared.NewStorageError("list purchase orders", err)
	}

	orders := make([]trade.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id int64) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems", orderByID).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.NewStorageError("find purchase order", err)
	}
	return model.ToDomain(), nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
