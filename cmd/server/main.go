package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	bulkapp "github.com/partshub/backend/internal/application/bulk"
	stockapp "github.com/partshub/backend/internal/application/stock"
	"github.com/partshub/backend/internal/infrastructure/auth"
	"github.com/partshub/backend/internal/infrastructure/config"
	"github.com/partshub/backend/internal/infrastructure/logger"
	"github.com/partshub/backend/internal/infrastructure/persistence"
	"github.com/partshub/backend/internal/interfaces/http/handler"
	"github.com/partshub/backend/internal/interfaces/http/middleware"
	"github.com/partshub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			PartsHub Backend API
//	@version		1.0
//	@description	Electronic component inventory backend - stock ledger, reorder alerts and bulk operations

//	@contact.name	API Support
//	@contact.url	https://github.com/partshub/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting PartsHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Transaction scopes: the stock scope carries the row-lock timeout, the
	// bulk scope wraps the catalog repositories for all-or-nothing batches
	stockScope := persistence.NewGormStockTransactionScope(db.DB, cfg.Stock.LockTimeout)
	bulkScope := persistence.NewGormBulkTransactionScope(db.DB)

	// Initialize application services
	ledgerService := stockapp.NewLedgerService(stockScope)
	alertService := stockapp.NewAlertService(stockScope)
	historyService := stockapp.NewHistoryService(stockScope)
	bulkService := bulkapp.NewService(bulkScope, cfg.Bulk.MaxBatchSize)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	stockHandler := handler.NewStockHandler(ledgerService)
	alertHandler := handler.NewAlertHandler(alertService)
	historyHandler := handler.NewHistoryHandler(historyService)
	bulkHandler := handler.NewBulkHandler(bulkService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Stock ledger: every mutation runs under a row lock and writes an
	// audit transaction
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/add", stockHandler.AddStock)
	stockRoutes.POST("/remove", stockHandler.RemoveStock)
	stockRoutes.POST("/move", stockHandler.MoveStock)

	// Reorder alerts: thresholds, lifecycle transitions, reads
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.PUT("/thresholds", alertHandler.SetThreshold)
	alertRoutes.POST("/thresholds/bulk", alertHandler.BulkSetThreshold)
	alertRoutes.GET("", alertHandler.ListActive)
	alertRoutes.GET("/history", alertHandler.History)
	alertRoutes.GET("/statistics", alertHandler.Statistics)
	alertRoutes.GET("/low-stock", alertHandler.LowStockReport)
	alertRoutes.GET("/:id", alertHandler.GetByID)
	alertRoutes.POST("/:id/dismiss", alertHandler.Dismiss)
	alertRoutes.POST("/:id/order", alertHandler.MarkOrdered)

	// Stock history: paginated audit trail and exports per component
	componentRoutes := router.NewDomainGroup("components", "/components")
	componentRoutes.GET("/:id/history", historyHandler.List)
	componentRoutes.GET("/:id/history/export", historyHandler.Export)

	// Bulk operations: all-or-nothing batches over components. Deletion is
	// restricted to administrators.
	bulkRoutes := router.NewDomainGroup("bulk", "/bulk")
	bulkRoutes.POST("/tags/add", bulkHandler.AddTags)
	bulkRoutes.POST("/tags/remove", bulkHandler.RemoveTags)
	bulkRoutes.POST("/tags/preview", bulkHandler.PreviewTags)
	bulkRoutes.POST("/projects/assign", bulkHandler.AssignToProject)
	bulkRoutes.POST("/components/delete", middleware.RequireAdmin(), bulkHandler.DeleteComponents)

	// Register all domain groups
	r.Register(stockRoutes).
		Register(alertRoutes).
		Register(componentRoutes).
		Register(bulkRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
