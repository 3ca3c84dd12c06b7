package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	attrDBOperation = attribute.Key("db.operation")
	attrDBTable     = attribute.Key("db.table")
	attrDBOutcome   = attribute.Key("db.outcome")
)

// DBDurationBuckets are bucket boundaries for database query duration (seconds).
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetrics holds the database query and connection pool instruments.
type DBMetrics struct {
	queryTotal    *Counter
	queryDuration *Histogram
	registration  metric.Registration
	logger        *zap.Logger
}

// NewDBMetrics creates the query instruments and, when sqlDB is non-nil, an
// observable gauge reporting pool connections by state on every collection.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, &MetricsError{Op: "NewDBMetrics", Err: "meter cannot be nil"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	queryTotal, err := NewCounter(meter,
		"db_query_total",
		"Total number of database queries by operation and outcome",
		"{query}",
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m := &DBMetrics{
		queryTotal:    queryTotal,
		queryDuration: queryDuration,
		logger:        logger,
	}

	if sqlDB != nil {
		connections, err := meter.Int64ObservableGauge("db_pool_connections",
			metric.WithDescription("Number of connections in the pool by state"),
			metric.WithUnit("{connection}"),
		)
		if err != nil {
			return nil, err
		}
		m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			stats := sqlDB.Stats()
			o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
			o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
			o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBPoolState.String("open")))
			return nil
		}, connections)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordQuery records one completed statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if table == "" {
		table = "unknown"
	}
	outcome := "ok"
	if err != nil && err != gorm.ErrRecordNotFound {
		outcome = "error"
	}
	m.queryTotal.Inc(ctx, attrDBOperation.String(operation), attrDBTable.String(table), attrDBOutcome.String(outcome))
	m.queryDuration.RecordDuration(ctx, duration, attrDBOperation.String(operation), attrDBTable.String(table))
}

// Close unregisters the pool gauge callback.
func (m *DBMetrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

// Name implements gorm.Plugin.
func (m *DBMetrics) Name() string {
	return "edi:db_metrics"
}

// Initialize implements gorm.Plugin by timing create and query statements.
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(dbMetricsStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			var elapsed time.Duration
			if v, ok := tx.InstanceGet(dbMetricsStartKey); ok {
				if start, ok := v.(time.Time); ok {
					elapsed = time.Since(start)
				}
			}
			ctx := tx.Statement.Context
			if ctx == nil {
				ctx = context.Background()
			}
			m.RecordQuery(ctx, operation, tx.Statement.Table, elapsed, tx.Error)
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("edi:db_metrics:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("edi:db_metrics:after_create", after("INSERT")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("edi:db_metrics:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("edi:db_metrics:after_query", after("SELECT")); err != nil {
		return err
	}
	return nil
}

const dbMetricsStartKey = "edi:db_metrics:start"

// RegisterDBMetrics installs DB metrics on db when the meter provider is enabled.
// It returns nil metrics when metrics are disabled.
func RegisterDBMetrics(db *gorm.DB, meterProvider *MeterProvider, logger *zap.Logger) (*DBMetrics, error) {
	if meterProvider == nil || !meterProvider.IsEnabled() {
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	m, err := NewDBMetrics(meterProvider.Meter("db.client"), sqlDB, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		return nil, err
	}

	logger.Info("Database metrics registered")
	return m, nil
}
