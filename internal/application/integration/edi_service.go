package integration

import (
	"context"
	"errors"
	"time"

	"github.com/erp/edigateway/internal/domain/integration"
	"github.com/erp/edigateway/internal/domain/shared"
	"github.com/erp/edigateway/internal/domain/trade"
	"github.com/erp/edigateway/internal/infrastructure/logger"
	"github.com/erp/edigateway/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// EDIService runs the two document flows of the gateway: inbound EDI-850
// purchase orders into the order store and stored orders out as EDI-810 invoices.
type EDIService struct {
	orderRepo       trade.PurchaseOrderRepository
	dispatcher      integration.InvoiceDispatcher
	businessMetrics *telemetry.BusinessMetrics
	now             func() time.Time
}

// NewEDIService creates a new EDIService
func NewEDIService(orderRepo trade.PurchaseOrderRepository, dispatcher integration.InvoiceDispatcher) *EDIService {
	return &EDIService{
		orderRepo:  orderRepo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *EDIService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetClock overrides the time source used for date fallback and invoice numbering
func (s *EDIService) SetClock(now func() time.Time) {
	s.now = now
}

// ReceivePurchaseOrder maps and stores an inbound EDI-850 document and returns the new order ID.
func (s *EDIService) ReceivePurchaseOrder(ctx context.Context, doc integration.PurchaseOrder850) (int64, error) {
	ctx = logger.WithPartner(ctx, doc.SenderID, doc.PoNumber)
	ctx, span := telemetry.StartServiceSpan(ctx, "edi", "ReceivePurchaseOrder",
		telemetry.WithAttribute(telemetry.SpanAttrPoNumber, doc.PoNumber),
		telemetry.WithAttribute(telemetry.SpanAttrPartnerID, doc.SenderID),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, doc.DocumentID),
	)
	defer span.End()

	log := logger.L(ctx)
	log.Info("webhook triggered",
		zap.String("sender_id", doc.SenderID),
		zap.Int("items", len(doc.Items)),
	)

	order, fallback := MapInbound(doc, s.now())
	if fallback {
		log.Debug("unparseable date_created, using processing time",
			zap.String("date_created", doc.DateCreated),
			zap.Time("order_date", order.OrderDate),
		)
	}

	var (
		id  int64
		err error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("receive_850", doc.SenderID), func(ctx context.Context) {
		id, err = s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("failed to store purchase order", zap.Error(err))
		return 0, err
	}

	s.businessMetrics.RecordInboundOrder(ctx, order.PartnerID, order.TotalAmount, order.LineItemCount())
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, id,
		telemetry.SpanAttrLineItemCount, order.LineItemCount(),
		telemetry.SpanAttrAmount, order.TotalAmount.String(),
	)
	telemetry.SetOK(span)
	log.Info("purchase order saved",
		zap.Int64("order_id", id),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	return id, nil
}

// SendInvoice loads a stored order, maps it to an EDI-810 invoice and makes one
// delivery attempt. A missing order returns shared.ErrNotFound without contacting
// the partner and a non-positive id returns shared.ErrInvalidInput. Failed
// deliveries leave the order untouched.
func (s *EDIService) SendInvoice(ctx context.Context, orderID int64) (*integration.DispatchResult, error) {
	if orderID <= 0 {
		return nil, shared.ErrInvalidInput
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "edi", "SendInvoice",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID),
	)
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ctx = logger.WithPartner(ctx, order.PartnerID, order.PoNumber)
	log := logger.L(ctx).With(zap.Int64("order_id", orderID))

	invoice := MapOutbound(order, s.now())
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, invoice.InvoiceNumber,
		telemetry.SpanAttrPartnerID, order.PartnerID,
	)

	var result *integration.DispatchResult
	start := time.Now()
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("send_810", order.PartnerID), func(ctx context.Context) {
		result, err = s.dispatcher.Dispatch(ctx, []integration.Invoice810{invoice})
	})
	elapsed := time.Since(start)

	if err != nil {
		status, statusCode := dispatchOutcome(err)
		s.businessMetrics.RecordDispatch(ctx, status, statusCode, elapsed)
		if statusCode != 0 {
			telemetry.SetAttribute(span, telemetry.SpanAttrHTTPStatusCode, statusCode)
		}
		telemetry.RecordError(span, err)
		log.Warn("invoice dispatch failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Int("status_code", statusCode),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.businessMetrics.RecordDispatch(ctx, telemetry.DispatchStatusAccepted, result.StatusCode, elapsed)
	telemetry.SetAttribute(span, telemetry.SpanAttrHTTPStatusCode, result.StatusCode)
	telemetry.SetOK(span)
	log.Info("invoice dispatched",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("status_code", result.StatusCode),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func dispatchOutcome(err error) (telemetry.DispatchStatus, int) {
	var dispatchErr *integration.DispatchError
	if errors.As(err, &dispatchErr) {
		return telemetry.DispatchStatusRejected, dispatchErr.StatusCode
	}
	return telemetry.DispatchStatusUnavailable, 0
}
