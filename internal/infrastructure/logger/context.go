package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	partnerIDKey contextKey = "partner_id"
	poNumberKey  contextKey = "po_number"
)

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and attaches a logger carrying it.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithPartner records the trading partner and purchase order number being processed.
// Either value may be empty.
func WithPartner(ctx context.Context, partnerID, poNumber string) context.Context {
	if partnerID != "" {
		ctx = context.WithValue(ctx, partnerIDKey, partnerID)
	}
	if poNumber != "" {
		ctx = context.WithValue(ctx, poNumberKey, poNumber)
	}
	return ctx
}

func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func GetPartnerID(ctx context.Context) string {
	v, _ := ctx.Value(partnerIDKey).(string)
	return v
}

func GetPoNumber(ctx context.Context) string {
	v, _ := ctx.Value(poNumberKey).(string)
	return v
}

// WithTraceContext adds trace_id and span_id from the active span, if any.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// ContextLogger logs with the correlation fields found in its context.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
	// bound reports that logger already carries request_id.
	bound bool
}

// L returns a ContextLogger for ctx.
//
//	logger.L(ctx).Info("purchase order saved", zap.Int64("order_id", id))
//
// Entries carry trace_id/span_id from the active span plus request_id,
// partner_id and po_number when present.
func L(ctx context.Context) *ContextLogger {
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || logger == nil {
		return &ContextLogger{ctx: ctx, logger: zap.NewNop()}
	}
	return &ContextLogger{ctx: ctx, logger: logger, bound: true}
}

// WithLogger is like L but uses logger instead of the one stored in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

func (cl *ContextLogger) enriched() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}
	l = WithTraceContext(cl.ctx, l)

	if id := GetRequestID(cl.ctx); id != "" && !cl.bound {
		l = l.With(zap.String("request_id", id))
	}
	if partner := GetPartnerID(cl.ctx); partner != "" {
		l = l.With(zap.String("partner_id", partner))
	}
	if po := GetPoNumber(cl.ctx); po != "" {
		l = l.With(zap.String("po_number", po))
	}
	return l
}

// With returns a child ContextLogger with extra fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	base := cl.logger
	if base == nil {
		base = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, logger: base.With(fields...), bound: cl.bound}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.enriched().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.enriched().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.enriched().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.enriched().Error(msg, fields...) }

// Zap returns the enriched *zap.Logger.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enriched()
}
