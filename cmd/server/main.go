package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	bomapp "github.com/bomcraft/backend/internal/application/bom"
	ledgerapp "github.com/bomcraft/backend/internal/application/ledger"
	productionapp "github.com/bomcraft/backend/internal/application/production"
	"github.com/bomcraft/backend/internal/domain/ledger"
	"github.com/bomcraft/backend/internal/domain/production"
	"github.com/bomcraft/backend/internal/infrastructure/config"
	"github.com/bomcraft/backend/internal/infrastructure/logger"
	"github.com/bomcraft/backend/internal/infrastructure/persistence"
	"github.com/bomcraft/backend/internal/interfaces/http/handler"
	"github.com/bomcraft/backend/internal/interfaces/http/middleware"
	"github.com/bomcraft/backend/internal/interfaces/http/router"
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
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BOMCraft Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	entryRepo := persistence.NewGormSupplyEntryRepository(db.DB)
	componentRepo := persistence.NewGormComponentRepository(db.DB)
	productionRepo := persistence.NewGormProductionRepository(db.DB)

	// Transaction scopes (one per bounded context)
	ledgerTxScope := persistence.NewGormLedgerTransactionScope(db.DB)
	bomTxScope := persistence.NewGormBOMTransactionScope(db.DB)
	productionTxScope := persistence.NewGormProductionTransactionScope(db.DB)

	// Resolve cost and draw strategies from configuration
	costStrategy, err := ledger.NewSupplyCostStrategyFactory().GetStrategy(costStrategyType(cfg.Production.SupplyCostStrategy))
	if err != nil {
		log.Fatal("Invalid supply cost strategy", zap.Error(err))
	}
	policy := productionapp.Policy{
		AllowNegativeStock:   cfg.Production.AllowNegativeStock,
		AutoProduceShortfall: cfg.Production.AutoProduceShortfall,
		BatchDrawStrategy:    batchDrawStrategyType(cfg.Production.BatchDrawStrategy),
	}
	log.Info("Production policy loaded",
		zap.Bool("allow_negative_stock", policy.AllowNegativeStock),
		zap.Bool("auto_produce_shortfall", policy.AutoProduceShortfall),
		zap.String("batch_draw_strategy", policy.BatchDrawStrategy.String()),
		zap.String("supply_cost_strategy", string(costStrategy.StrategyType())),
	)

	// Initialize application services
	supplyService := ledgerapp.NewSupplyService(supplyRepo, entryRepo, componentRepo, costStrategy)
	entryService := ledgerapp.NewEntryService(ledgerTxScope, supplyRepo, entryRepo, costStrategy, cfg.Production.AllowNegativeStock)
	componentService := bomapp.NewComponentService(bomTxScope, componentRepo, supplyRepo, productionRepo)
	pricer := bomapp.NewSupplyPricer(supplyRepo, entryRepo, costStrategy)
	costingService := bomapp.NewCostingService(componentRepo, pricer)
	productionService := productionapp.NewProductionService(productionTxScope, productionRepo, componentRepo, costStrategy, policy)

	// Initialize HTTP handlers
	supplyHandler := handler.NewSupplyHandler(supplyService, entryService)
	componentHandler := handler.NewComponentHandler(componentService, costingService)
	productionHandler := handler.NewProductionHandler(productionService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, security
	// headers, CORS, then business scoping for all API routes
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BusinessScope())

	// Health and readiness endpoints (outside API versioning)
	systemHandler.RegisterRoutes(engine)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(supplyHandler).
		Register(componentHandler).
		Register(productionHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// costStrategyType maps the config string to the domain strategy type.
// Configuration validation guarantees the value is one of the two.
func costStrategyType(s string) ledger.SupplyCostStrategyType {
	if strings.ToLower(s) == "latest_entry" {
		return ledger.SupplyCostStrategyTypeLatestEntry
	}
	return ledger.SupplyCostStrategyTypeWeightedAverage
}

// batchDrawStrategyType maps the config string to the domain strategy type
func batchDrawStrategyType(s string) production.BatchDrawStrategyType {
	if strings.ToLower(s) == "fifo" {
		return production.BatchDrawStrategyTypeFIFO
	}
	return production.BatchDrawStrategyTypeFEFO
}
