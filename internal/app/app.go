package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/config"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/event"
	handler "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/handler/http"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/order"
	redisrepo "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/repository/redis"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/service"
	cartsync "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/sync"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/health"
	pkgkafka "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/kafka"
)

// App wires together all dependencies and runs the cart engine.
type App struct {
	cfg          *config.Config
	logger       *slog.Logger
	rdb          *redis.Client
	producer     *pkgkafka.Producer
	store        *service.CartStore
	synchronizer *cartsync.Synchronizer
	httpServer   *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client. Redis is both the durable cart slot and the
	// change-notification channel between contexts.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	snapshotTTL := time.Duration(cfg.SnapshotTTL) * time.Hour
	repo := redisrepo.NewSnapshotRepository(rdb, cfg.SlotKey, snapshotTTL)
	broadcaster := cartsync.NewRedisBroadcaster(rdb, cfg.SyncChannel, logger)
	eventProducer := event.NewProducer(producer, logger)

	store := service.NewCartStore(repo, broadcaster, eventProducer, logger)
	store.Hydrate(ctx)

	synchronizer := cartsync.NewSynchronizer(store.Origin(), broadcaster, store, logger)

	orderService := order.NewService(store, eventProducer, logger, cfg.TaxRate, cfg.DiscountRate)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Cart:        handler.NewCartHandler(store, logger, cfg.TaxRate, cfg.DiscountRate),
		Orders:      handler.NewOrderHandler(orderService, logger),
		Health:      healthHandler,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Environment: cfg.Environment,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		rdb:          rdb,
		producer:     producer,
		store:        store,
		synchronizer: synchronizer,
		httpServer:   httpServer,
	}, nil
}

// Run starts the synchronizer and HTTP server and blocks until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.synchronizer.Start(ctx); err != nil {
		return fmt.Errorf("start synchronizer: %w", err)
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
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

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.synchronizer.Stop()

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
