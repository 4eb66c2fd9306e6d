package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/sportsstore/internal/auth"
	"github.com/utafrali/sportsstore/internal/config"
	"github.com/utafrali/sportsstore/internal/event"
	handler "github.com/utafrali/sportsstore/internal/handler/http"
	"github.com/utafrali/sportsstore/internal/seed"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/health"
	"github.com/utafrali/sportsstore/pkg/httpclient"
	pkgkafka "github.com/utafrali/sportsstore/pkg/kafka"
	"github.com/utafrali/sportsstore/pkg/tracing"
)

const (
	consumerGroup        = "storefront"
	idempotencyKeyPrefix = "storefront:processed:"
	idempotencyTTL       = 7 * 24 * time.Hour
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	storage        *Storage
	producer       *pkgkafka.Producer
	consumer       *pkgkafka.Consumer
	catalog        *service.CatalogService
	identity       *service.IdentityService
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, err
	}

	products, err := seed.Catalog(cfg.SeedCatalogFile)
	if err != nil {
		_ = storage.Close()
		_ = tracerShutdown(context.Background())
		return nil, fmt.Errorf("load seed catalog: %w", err)
	}

	healthHandler := health.NewHandler()
	storage.RegisterHealth(healthHandler)

	// Events
	var (
		publisher pkgkafka.Publisher = pkgkafka.NoopPublisher{}
		producer  *pkgkafka.Producer
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled; events are dropped")
	}
	eventProducer := event.NewProducer(publisher, logger)

	// Services
	var verifier service.ShippingVerifier
	if cfg.ShippingVerifierURL != "" {
		verifier = service.NewHTTPShippingVerifier(
			cfg.ShippingVerifierURL,
			httpclient.New(cfg.ShippingVerifierClient()),
			cfg.ShippingVerifierBreaker(),
			logger,
		)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL())
	catalogService := service.NewCatalogService(storage.Products, eventProducer, logger, cfg.CatalogPageSize, products)
	cartService := service.NewCartService(service.NewCartManager(storage.Sessions, logger), storage.Products, eventProducer, logger)
	checkoutService := service.NewCheckoutService(storage.Orders, verifier, eventProducer, logger)
	orderService := service.NewOrderService(storage.Orders, eventProducer, logger)
	identityService := service.NewIdentityService(storage.Users, jwtManager, logger)

	var consumer *pkgkafka.Consumer
	if cfg.KafkaEnabled {
		var store pkgkafka.IdempotencyStore = pkgkafka.NewMemoryIdempotencyStore(idempotencyTTL)
		if rdb := storage.Redis(); rdb != nil {
			store = pkgkafka.NewRedisIdempotencyStore(rdb, idempotencyKeyPrefix, idempotencyTTL)
		}
		consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:   cfg.KafkaBrokers,
			GroupID:   consumerGroup,
			Topic:     event.TopicFulfillmentShipped,
			MinBytes:  1,
			MaxBytes:  10e6, // 10 MB
			EnableDLQ: true,
		}, pkgkafka.IdempotentHandler(store, event.NewFulfillmentHandler(orderService, logger), logger), logger)
	}

	router := handler.NewRouter(handler.Services{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
		Identity: identityService,
	}, jwtManager.Validate, healthHandler, logger, handler.RouterConfig{
		Session: handler.SessionConfig{
			CookieName: cfg.SessionCookieName,
			TTL:        cfg.SessionTTL(),
			Secure:     cfg.SessionCookieSecure,
		},
		CORS:           cfg.CORS(),
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		CatalogMaxAge:  60,
		LoginRateLimit: cfg.LoginRateLimit(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		storage:        storage,
		producer:       producer,
		consumer:       consumer,
		catalog:        catalogService,
		identity:       identityService,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Bootstrap creates the admin account and seeds an empty catalog.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.identity.EnsureAdmin(ctx, a.cfg.AdminUsername, a.cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	n, err := a.catalog.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if n > 0 {
		a.logger.InfoContext(ctx, "seeded default catalog", slog.Int("products", n))
	}
	return nil
}

// Run bootstraps the data, then serves HTTP and consumes fulfillment events
// until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.Bootstrap(ctx); err != nil {
		_ = a.Shutdown()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			if err := a.consumer.Start(gctx); err != nil {
				return fmt.Errorf("kafka consumer: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components in order: HTTP server, tracer,
// Kafka consumer and producer, then storage.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
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

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Error("storage close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
