package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks EDI document flow: inbound purchase orders and
// outbound invoice dispatches.
type BusinessMetrics struct {
	logger *zap.Logger

	inboundOrders    *Counter
	inboundAmount    *Histogram
	inboundLineItems *Histogram
	dispatchTotal    *Counter
	dispatchDuration *Histogram
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// DispatchStatus is the outcome label of an invoice dispatch
type DispatchStatus string

const (
	DispatchStatusAccepted    DispatchStatus = "accepted"
	DispatchStatusRejected    DispatchStatus = "rejected"
	DispatchStatusUnavailable DispatchStatus = "unavailable"
)

// NewBusinessMetrics creates the EDI business instruments on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}

	var err error
	bm.inboundOrders, err = NewCounter(cfg.Meter,
		"edi_inbound_orders_total",
		"Total number of EDI-850 purchase orders accepted",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.inboundAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "edi_inbound_order_amount",
		Description: "Distribution of accepted purchase order totals",
		Unit:        "{currency}",
		Boundaries:  OrderAmountBuckets,
	})
	if err != nil {
		return nil, err
	}

	bm.inboundLineItems, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "edi_inbound_order_line_items",
		Description: "Number of line items per accepted purchase order",
		Unit:        "{items}",
		Boundaries:  []float64{1, 2, 5, 10, 25, 50, 100},
	})
	if err != nil {
		return nil, err
	}

	bm.dispatchTotal, err = NewCounter(cfg.Meter,
		"edi_invoice_dispatch_total",
		"Total number of EDI-810 invoice dispatch attempts by outcome",
		"{dispatches}",
	)
	if err != nil {
		return nil, err
	}

	bm.dispatchDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "edi_invoice_dispatch_duration_seconds",
		Description: "Latency of the partner invoice endpoint in seconds",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordInboundOrder records an accepted purchase order.
func (bm *BusinessMetrics) RecordInboundOrder(ctx context.Context, partnerID string, total decimal.Decimal, lineItems int) {
	if bm == nil {
		return
	}
	attr := AttrPartnerID.String(partnerID)
	bm.inboundOrders.Inc(ctx, attr)
	bm.inboundAmount.Record(ctx, total.InexactFloat64(), attr)
	bm.inboundLineItems.Record(ctx, float64(lineItems), attr)
}

// RecordDispatch records one invoice dispatch attempt. statusCode is 0 when
// the partner could not be reached.
func (bm *BusinessMetrics) RecordDispatch(ctx context.Context, status DispatchStatus, statusCode int, elapsed time.Duration) {
	if bm == nil {
		return
	}
	bm.dispatchTotal.Inc(ctx,
		AttrDispatchStatus.String(string(status)),
		AttrHTTPStatusCode.String(strconv.Itoa(statusCode)),
	)
	bm.dispatchDuration.RecordDuration(ctx, elapsed, AttrDispatchStatus.String(string(status)))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
