package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/b2bportal/backend/internal/application/catalog"
	orderingapp "github.com/b2bportal/backend/internal/application/ordering"
	partnerapp "github.com/b2bportal/backend/internal/application/partner"
	pricingapp "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/infrastructure/auth"
	"github.com/b2bportal/backend/internal/infrastructure/cache"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/b2bportal/backend/internal/infrastructure/event"
	"github.com/b2bportal/backend/internal/infrastructure/logger"
	"github.com/b2bportal/backend/internal/infrastructure/notification"
	"github.com/b2bportal/backend/internal/infrastructure/persistence"
	"github.com/b2bportal/backend/internal/interfaces/http/handler"
	"github.com/b2bportal/backend/internal/interfaces/http/middleware"
	"github.com/b2bportal/backend/internal/interfaces/http/router"
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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting B2B Portal Backend",
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

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	priceListRepo := persistence.NewGormPriceListRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories so domain events are saved
	// in the same transaction as the aggregate
	productRepo.SetOutboxEventSaver(outboxPublisher)
	customerRepo.SetOutboxEventSaver(outboxPublisher)
	priceListRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	productService := catalogapp.NewProductService(productRepo, priceListRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, jwtService, log)
	catalogService := pricingapp.NewCatalogService(customerRepo, productRepo, priceListRepo, cfg.Catalog.AssignConcurrency)
	// Order creation prices lines through the catalog service, so the
	// charged price is always the one the catalog endpoints display.
	orderService := orderingapp.NewOrderService(
		orderRepo, customerRepo, catalogService,
		orderingapp.OrderServiceConfig{StrictLineValidation: cfg.Order.StrictLineValidation},
		log,
	)

	// Catalog cache: Redis when available, in-memory as fallback
	cacheFactory := cache.NewCatalogCacheFactory(cfg.Redis, cfg.Catalog,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	catalogCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create catalog cache", zap.Error(err))
	}
	if catalogCache != nil {
		catalogService.SetCache(catalogCache)
		log.Info("Catalog cache enabled", zap.Duration("ttl", cfg.Catalog.CacheTTL))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	notifier := notification.NewLogNotifier(log)

	customerInvitedHandler := partnerapp.NewCustomerInvitedHandler(notifier, log)
	eventBus.Subscribe(customerInvitedHandler, customerInvitedHandler.EventTypes()...)

	orderCreatedHandler := orderingapp.NewOrderCreatedHandler(notifier, customerRepo, log)
	eventBus.Subscribe(orderCreatedHandler, orderCreatedHandler.EventTypes()...)

	priceListInvalidationHandler := pricingapp.NewPriceListInvalidationHandler(catalogService, log)
	eventBus.Subscribe(priceListInvalidationHandler, priceListInvalidationHandler.EventTypes()...)

	log.Info("Event handlers registered",
		zap.Strings("customer_invited_events", customerInvitedHandler.EventTypes()),
		zap.Strings("order_created_events", orderCreatedHandler.EventTypes()),
		zap.Strings("price_list_events", priceListInvalidationHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor publishes saved events to the bus in the background
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first: request ID, panic recovery,
	// request logging, security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(authHandler).
		Register(productHandler).
		Register(customerHandler).
		Register(catalogHandler).
		Register(orderHandler)

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
