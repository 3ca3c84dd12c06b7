package trade

import (
	"context"

	"github.com/erp/edigateway/internal/domain/trade"
	"github.com/erp/edigateway/internal/infrastructure/logger"
	"github.com/erp/edigateway/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PurchaseOrderService serves read access to stored purchase orders
type PurchaseOrderService struct {
	orderRepo trade.PurchaseOrderRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
	}
}

// List returns every stored order with its line items, oldest first
func (s *PurchaseOrderService) List(ctx context.Context) ([]PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "List")
	defer span.End()

	logger.L(ctx).Info("fetching all purchase orders")

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, "edi.order_count", len(orders))
	logger.L(ctx).Debug("purchase orders loaded", zap.Int("count", len(orders)))
	return ToPurchaseOrderResponses(orders), nil
}
