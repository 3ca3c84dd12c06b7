package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/edigateway/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// collect gathers all metrics recorded on the manual reader, keyed by instrument name.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func newTestBusinessMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return bm, reader
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestNewBusinessMetrics_NoopMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bm.RecordInboundOrder(context.Background(), "S1", decimal.NewFromInt(20), 1)
		bm.RecordDispatch(context.Background(), telemetry.DispatchStatusAccepted, 200, time.Millisecond)
	})
}

func TestBusinessMetrics_NilReceiver(t *testing.T) {
	var bm *telemetry.BusinessMetrics
	assert.NotPanics(t, func() {
		bm.RecordInboundOrder(context.Background(), "S1", decimal.NewFromInt(1), 1)
		bm.RecordDispatch(context.Background(), telemetry.DispatchStatusRejected, 500, time.Second)
	})
}

func TestBusinessMetrics_RecordInboundOrder(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t)
	ctx := context.Background()

	bm.RecordInboundOrder(ctx, "S1", decimal.RequireFromString("20.00"), 1)
	bm.RecordInboundOrder(ctx, "S1", decimal.RequireFromString("5.50"), 3)

	metrics := collect(t, reader)

	orders, ok := metrics["edi_inbound_orders_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, orders.DataPoints, 1)
	assert.Equal(t, int64(2), orders.DataPoints[0].Value)

	amount, ok := metrics["edi_inbound_order_amount"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.Equal(t, uint64(2), amount.DataPoints[0].Count)
	assert.InDelta(t, 25.5, amount.DataPoints[0].Sum, 0.0001)
}

func TestBusinessMetrics_RecordDispatch(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t)
	ctx := context.Background()

	bm.RecordDispatch(ctx, telemetry.DispatchStatusAccepted, 200, 10*time.Millisecond)
	bm.RecordDispatch(ctx, telemetry.DispatchStatusRejected, 422, 10*time.Millisecond)
	bm.RecordDispatch(ctx, telemetry.DispatchStatusUnavailable, 0, time.Second)

	metrics := collect(t, reader)

	dispatches, ok := metrics["edi_invoice_dispatch_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, dispatches.DataPoints, 3)

	byStatus := map[string]int64{}
	for _, dp := range dispatches.DataPoints {
		status, _ := dp.Attributes.Value(telemetry.AttrDispatchStatus)
		byStatus[status.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"accepted": 1, "rejected": 1, "unavailable": 1}, byStatus)

	_, ok = metrics["edi_invoice_dispatch_duration_seconds"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}
