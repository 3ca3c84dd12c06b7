package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedOrder struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	PoNumber string `gorm:"size:64"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedOrder{}))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, nil)

	assert.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Nil(t, db.Config.Plugins["otelgorm"])
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	db := setupTestDB(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:        true,
		DBSystem:       "sqlite",
		TracerProvider: tp,
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	require.NoError(t, db.Create(&tracedOrder{PoNumber: "PO-1"}).Error)
	var found []tracedOrder
	require.NoError(t, db.Find(&found).Error)

	spans := sr.Ended()
	assert.GreaterOrEqual(t, len(spans), 2, "expected an insert and a select span")
	assert.Contains(t, db.Config.Plugins, "otelgorm")
}

func TestNewDBTracingPlugin_Defaults(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.Equal(t, int64(200), plugin.config.SlowQueryThresh.Milliseconds())
	assert.NotNil(t, plugin.logger)
}
