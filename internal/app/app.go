// Package app wires the storefront's dependencies together and owns the
// process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/account"
	adminpkg "github.com/Ahmed-Mansy/shoe-zone-online/internal/admin"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/auth"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/cart"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/catalog"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider/mock"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider/stripe"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/config"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/event"
	handler "github.com/Ahmed-Mansy/shoe-zone-online/internal/handler/http"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/orders"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/reviews"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/health"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/httpclient"
	pkgkafka "github.com/Ahmed-Mansy/shoe-zone-online/pkg/kafka"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/tracing"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	attempts       *checkout.Attempts
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Session and cart mirror stores.
	var (
		redisClient *redis.Client
		sessions    session.Store
		mirrors     cart.Store
	)
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Minute
	if cfg.SessionStore == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to redis", slog.String("addr", cfg.RedisAddr))

		sessions = session.NewRedisStore(redisClient, sessionTTL)
		mirrors = cart.NewRedisStore(redisClient, sessionTTL)
	} else {
		sessions = session.NewMemoryStore(sessionTTL)
		mirrors = cart.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	// Kafka producer for storefront activity events.
	var producer *pkgkafka.Producer
	var events *event.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		events = event.NewProducer(nil, logger)
	}

	// Upstream commerce API client behind a circuit breaker.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:         time.Duration(cfg.APITimeout) * time.Second,
		MaxConnsPerHost: 100,
	})
	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "storefront-upstream",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	api := upstream.New(cfg.APIBaseURL, cbClient, logger)

	// Card payment provider.
	var cardProvider provider.Provider
	switch cfg.PaymentProvider {
	case "stripe":
		cardProvider = stripe.NewProvider(cfg.StripePublishableKey, baseClient, logger)
	default:
		cardProvider = mock.NewProvider()
	}
	logger.Info("payment provider initialized", slog.String("provider", cardProvider.Name()))

	// Build the dependency graph.
	carts := cart.NewService(api, mirrors, logger)
	accounts := account.NewService(api, sessions, logger)
	catalogSvc := catalog.NewService(api, logger)
	checkoutSvc := checkout.NewService(api, cardProvider, sessions, carts, events, logger, cfg.SuccessRedirectDelay)
	attempts := checkout.NewAttempts(30 * time.Minute)
	ordersSvc := orders.NewService(api, logger)
	reviewsSvc := reviews.NewService(api, logger)

	authorizer := auth.NewAuthorizer()
	adminProxy, err := adminpkg.NewProxy(cfg.AdminBaseURL(), authorizer, logger)
	if err != nil {
		return nil, fmt.Errorf("init admin proxy: %w", err)
	}
	dashboard := adminpkg.NewDashboard(api, authorizer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}
	healthHandler.Register("upstream", func(ctx context.Context) error {
		_, err := api.HomeProducts(ctx)
		return err
	})

	// HTTP router.
	h := handler.Handlers{
		Account:  handler.NewAccountHandler(accounts, carts, sessions, logger),
		Catalog:  handler.NewCatalogHandler(catalogSvc, logger),
		Cart:     handler.NewCartHandler(carts, sessions, logger),
		Checkout: handler.NewCheckoutHandler(checkoutSvc, attempts, logger),
		Orders:   handler.NewOrdersHandler(ordersSvc, sessions, logger),
		Reviews:  handler.NewReviewsHandler(reviewsSvc, sessions, logger),
		Admin:    handler.NewAdminHandler(dashboard, logger),
	}
	router := handler.NewRouter(cfg, h, adminProxy, sessions, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		redisClient:    redisClient,
		producer:       producer,
		attempts:       attempts,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: HTTP server first so in-flight
// requests drain, then the tracer, then the outbound connections.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.attempts.Close()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
