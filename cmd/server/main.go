package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	integrationapp "github.com/erp/edigateway/internal/application/integration"
	tradeapp "github.com/erp/edigateway/internal/application/trade"
	"github.com/erp/edigateway/internal/domain/integration"
	"github.com/erp/edigateway/internal/infrastructure/config"
	"github.com/erp/edigateway/internal/infrastructure/logger"
	"github.com/erp/edigateway/internal/infrastructure/migration"
	"github.com/erp/edigateway/internal/infrastructure/persistence"
	"github.com/erp/edigateway/internal/infrastructure/telemetry"
	"github.com/erp/edigateway/internal/infrastructure/zenbridge"
	"github.com/erp/edigateway/internal/interfaces/http/handler"
	"github.com/erp/edigateway/internal/interfaces/http/middleware"
	"github.com/erp/edigateway/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	log.Info("Starting EDI gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	// Telemetry: traces, metrics, logs, profiles
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = telemetry.NewBridgedLogger(log, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Telemetry.LogExportLevel),
		}))
		log.Info("Log export bridge installed", zap.String("level", cfg.Telemetry.LogExportLevel))
	}
	defer func() {
		_ = log.Sync()
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
		}
		if err := migration.AutoMigrate(sqlDB, &cfg.Database, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	dbSystem := cfg.Database.Driver
	if dbSystem == config.DriverPostgres {
		dbSystem = "postgresql"
	}
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  meterProvider.Meter("edi"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	// Outbound partner
	dispatcher := newDispatcher(cfg, log)

	// Repositories and services
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	ediService := integrationapp.NewEDIService(purchaseOrderRepo, dispatcher)
	ediService.SetBusinessMetrics(businessMetrics)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo)

	// HTTP handlers
	ediHandler := handler.NewEDIHandler(ediService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, telemetry.ServiceVersion)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Middleware order:
	// 1. RequestID - generate/propagate request ID
	// 2. Recovery - catch panics
	// 3. Logger - request logging
	// 4. BodyLimit - cap request bodies
	// 5. Tracing - server span, then attributes and status on it
	// 6. Metrics and profiling labels
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
		Logger:        log,
	}))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: []string{"/health"},
	}))

	r := router.NewRouter(engine)

	ediRoutes := router.NewDomainGroup("edi", "/webhook/zenbridge")
	ediRoutes.POST("/inbound-850", ediHandler.ReceivePurchaseOrder)

	orderRoutes := router.NewDomainGroup("orders", "/erp/orders")
	orderRoutes.GET("", purchaseOrderHandler.List).
		POST("/:id/send-invoice", ediHandler.SendInvoice)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(ediRoutes).
		Register(orderRoutes).
		Register(systemRoutes)
	r.Setup()

	engine.GET("/health", systemHandler.Health)

	for _, group := range []*router.DomainGroup{ediRoutes, orderRoutes, systemRoutes} {
		for _, route := range group.Routes() {
			log.Debug("Route registered",
				zap.String("group", group.Name()),
				zap.String("method", route.Method),
				zap.String("path", route.Path),
			)
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if dbMetrics != nil {
		if err := dbMetrics.Close(); err != nil {
			log.Warn("Error closing database metrics", zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newDispatcher builds the partner client. Outside production a missing
// endpoint leaves invoices undeliverable instead of failing startup.
func newDispatcher(cfg *config.Config, log *zap.Logger) integration.InvoiceDispatcher {
	if cfg.Partner.URL == "" && cfg.App.Env != "production" {
		log.Warn("Partner endpoint not configured, invoice dispatch disabled")
		return zenbridge.Disabled()
	}

	client, err := zenbridge.NewClient(zenbridge.Config{
		URL:     cfg.Partner.URL,
		Token:   cfg.Partner.Token,
		Timeout: cfg.Partner.Timeout,
	})
	if err != nil {
		log.Fatal("Invalid partner configuration", zap.Error(err))
	}
	log.Info("Partner endpoint configured",
		zap.String("url", cfg.Partner.URL),
		zap.Duration("timeout", cfg.Partner.Timeout),
	)
	return client
}
