package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/mbvogue/storefront/internal/application/cart"
	catalogapp "github.com/mbvogue/storefront/internal/application/catalog"
	checkoutapp "github.com/mbvogue/storefront/internal/application/checkout"
	dashboardapp "github.com/mbvogue/storefront/internal/application/dashboard"
	identityapp "github.com/mbvogue/storefront/internal/application/identity"
	"github.com/mbvogue/storefront/internal/application/notification"
	orderapp "github.com/mbvogue/storefront/internal/application/order"
	paymentapp "github.com/mbvogue/storefront/internal/application/payment"
	wishlistapp "github.com/mbvogue/storefront/internal/application/wishlist"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/infrastructure/auth"
	"github.com/mbvogue/storefront/internal/infrastructure/cache"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/mbvogue/storefront/internal/infrastructure/event"
	"github.com/mbvogue/storefront/internal/infrastructure/logger"
	"github.com/mbvogue/storefront/internal/infrastructure/mail"
	"github.com/mbvogue/storefront/internal/infrastructure/payment"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence"
	"github.com/mbvogue/storefront/internal/infrastructure/receipt"
	"github.com/mbvogue/storefront/internal/infrastructure/scheduler"
	"github.com/mbvogue/storefront/internal/infrastructure/storage"
	"github.com/mbvogue/storefront/internal/infrastructure/telemetry"
	"github.com/mbvogue/storefront/internal/interfaces/http/handler"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
	"github.com/mbvogue/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    serviceVersion,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	var metrics *telemetry.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = telemetry.NewMetrics()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(ctx, &cfg.Database,
		persistence.WithLogger(gormLog), persistence.WithStartupLogger(log))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if metrics != nil {
		plugin = plugin.WithMetrics(metrics)
	}
	if err := db.DB.Use(plugin); err != nil {
		log.Fatal("Failed to register database instrumentation", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Session carts and idempotency keys
	stores, err := cache.NewStores(cfg.Redis, cfg.Session, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewTokenBlacklist(stores.Idempotency)

	// Repositories
	cartRepo := persistence.NewGormCartRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	checkoutRepo := persistence.NewGormCheckoutRepository(db.DB)
	statsRepo := persistence.NewGormOrderStatsRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	gateway, err := payment.NewPaystackAdapter(cfg.Paystack, payment.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	cartService := cartapp.NewService(cartRepo, stores.SessionCarts, variantRepo, log)
	catalogService := catalogapp.NewService(categoryRepo, productRepo, variantRepo, objects)
	catalogAdmin := catalogapp.NewAdminService(categoryRepo, productRepo, variantRepo, imageRepo, objects, log)
	checkoutService := checkoutapp.NewService(cartRepo, checkoutRepo, userRepo,
		checkoutapp.WithTTL(cfg.Checkout.TTL),
		checkoutapp.WithLogger(log),
	)
	authService := identityapp.NewAuthService(identityapp.AuthServiceConfig{
		Users:      userRepo,
		Stats:      statsRepo,
		JWT:        jwtService,
		Blacklist:  blacklist,
		CartMerger: cartService,
		Logger:     log,
	})
	orderService := orderapp.NewService(orderRepo,
		receipt.NewRenderer(cfg.Mail.StoreName, cfg.App.SiteURL, cfg.App.Currency), log)
	orderAdmin := orderapp.NewAdminService(orderRepo, eventBus, log)
	wishlistService := wishlistapp.NewService(wishlistRepo, productRepo, catalogService, log)
	dashboardService := dashboardapp.NewService(dashboardapp.Config{
		Stats:             statsRepo,
		Orders:            orderRepo,
		Payments:          paymentRepo,
		Products:          productRepo,
		Variants:          variantRepo,
		Users:             userRepo,
		LowStockThreshold: cfg.Checkout.LowStockThreshold,
		Logger:            log,
	})

	var recorder paymentapp.VerificationRecorder
	if metrics != nil {
		business := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Metrics:           metrics,
			LowStock:          variantRepo,
			LowStockThreshold: cfg.Checkout.LowStockThreshold,
			Logger:            log,
		})
		eventBus.Subscribe(business)
		business.StartPeriodicCollection(ctx)
		defer business.Stop()
		recorder = business
	}

	paymentService := paymentapp.NewService(paymentapp.ServiceConfig{
		Gateway:     gateway,
		Payments:    paymentRepo,
		Orders:      orderRepo,
		Checkouts:   checkoutRepo,
		Loader:      checkoutService,
		TxScope:     txScope,
		Publisher:   eventBus,
		Idempotency: stores.Idempotency,
		Recorder:    recorder,
		CallbackURL: cfg.Paystack.CallbackURL,
		Currency:    cfg.App.Currency,
		Logger:      log,
	})

	// Notifications
	composer, err := notification.NewComposer(cfg.Mail.StoreName, cfg.App.Currency)
	if err != nil {
		log.Fatal("Failed to load mail templates", zap.Error(err))
	}
	mailer := mail.New(cfg.Mail, log)
	eventBus.Subscribe(event.NewIdempotentHandler(
		notification.NewOrderPaidHandler(orderRepo, composer, mailer, log),
		stores.Idempotency, 0, log,
	), order.EventTypeOrderPaid)
	eventBus.Subscribe(notification.NewStatusChangedHandler(composer, mailer, log))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Housekeeping
	sched := scheduler.NewScheduler(scheduler.DefaultConfig(), log)
	if cfg.Checkout.PurgeInterval > 0 {
		if err := sched.Register(scheduler.CheckoutPurgeTask(checkoutService, cfg.Checkout.PurgeInterval, log)); err != nil {
			log.Fatal("Failed to register checkout purge", zap.Error(err))
		}
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, logger.WithQuietPaths("/health", "/metrics")))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health", "/metrics"},
	}))
	engine.Use(middleware.SpanDecorator())
	if metrics != nil {
		engine.Use(middleware.HTTPMetrics(metrics))
	}
	engine.Use(middleware.SecureWithConfig(middleware.StorefrontSecurity(cfg.IsProduction())))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", cfg.Session.Header, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.SessionID(cfg.Session))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.Run(ctx)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}
	guards := router.Guards{
		Auth:         middleware.JWTAuth(jwtCfg),
		OptionalAuth: middleware.OptionalJWTAuth(jwtCfg),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.Run(ctx)
		guards.AuthRateLimit = middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		})
	}

	health := map[string]handler.Pinger{"database": db}
	if stores.Client != nil {
		health["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		})
	}
	engine.GET("/health", handler.NewHealthHandler(health).Health)
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	handlers := router.Handlers{
		Catalog:      handler.NewCatalogHandler(catalogService),
		Cart:         handler.NewCartHandler(cartService),
		Auth:         handler.NewAuthHandler(authService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Order:        handler.NewOrderHandler(orderService),
		Wishlist:     handler.NewWishlistHandler(wishlistService),
		AdminCatalog: handler.NewAdminCatalogHandler(catalogAdmin),
		Admin:        handler.NewAdminHandler(dashboardService, orderAdmin, authService),
	}
	routes := router.NewRouter(engine).Register(router.Storefront(handlers, guards)...)
	routes.Setup()
	log.Info("Routes registered", zap.Int("count", len(routes.Routes())))
	log.Debug("Route table", zap.Strings("routes", routes.Routes()))

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when configured, otherwise a stub that
// derives URLs from the public base URL.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		return storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Endpoint != "" && !cfg.IsProduction() {
		// local MinIO starts empty
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
	}
	return s3, nil
}
