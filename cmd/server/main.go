package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"namereg/internal/events"
	kafkasink "namereg/internal/events/kafka"
	eventspg "namereg/internal/events/postgres"
	"namereg/internal/events/publisher"
	"namereg/internal/ledger"
	"namereg/internal/platform/config"
	"namereg/internal/platform/httpserver"
	"namereg/internal/platform/logger"
	platformredis "namereg/internal/platform/redis"
	"namereg/internal/ratelimit"
	"namereg/internal/registry/handler"
	registrymetrics "namereg/internal/registry/metrics"
	"namereg/internal/registry/service"
	"namereg/internal/registry/store"
	"namereg/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	pub, cleanup, err := buildPublisher(cfg, log)
	if err != nil {
		log.Error("event pipeline setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := store.NewInMemory(cfg.FreeRegistrations, cfg.RegistrationFee)
	bank := ledger.NewInMemory(cfg.AdminAccount)
	svc := service.New(registry, bank, cfg.AdminAccount, cfg.RegistryAccount,
		service.WithEmitter(pub),
		service.WithMetrics(registrymetrics.New()),
		service.WithLogger(log),
	)

	rlStore, rlCleanup, err := buildRateLimitStore(cfg, log)
	if err != nil {
		log.Error("rate limit setup failed", "error", err)
		os.Exit(1)
	}
	defer rlCleanup()

	h := handler.New(svc, log)
	router := h.NewRouter(handler.RouterConfig{
		Validator:       auth.NewValidator(cfg.JWTSigningKey),
		AdminToken:      cfg.AdminToken,
		AdminAccount:    cfg.AdminAccount,
		RateLimitStore:  rlStore,
		RateLimitMax:    cfg.RegisterRateLimit,
		RateLimitWindow: cfg.RegisterRateWindow,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting namereg", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildPublisher selects the event store (PostgreSQL when a DSN is set,
// in-memory otherwise) and attaches the Kafka sink when brokers are
// configured.
func buildPublisher(cfg config.Config, log *slog.Logger) (*publisher.Publisher, func(), error) {
	var (
		eventStore events.Store
		closers    []func()
	)

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pgStore := eventspg.New(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		eventStore = pgStore
		closers = append(closers, func() { db.Close() })
		log.Info("event store: postgres")
	} else {
		eventStore = events.NewInMemoryStore()
		log.Info("event store: in-memory")
	}

	opts := []publisher.Option{
		publisher.WithLogger(log),
		publisher.WithAsyncBuffer(256),
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := kafkasink.NewSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		opts = append(opts, publisher.WithSink(sink))
		log.Info("event sink: kafka", "topic", cfg.KafkaTopic)
	}

	pub := publisher.NewPublisher(eventStore, opts...)
	cleanup := func() {
		// Close drains the async buffer and closes the sinks before the
		// underlying stores go away.
		pub.Close()
		for _, c := range closers {
			c()
		}
	}
	return pub, cleanup, nil
}

// buildRateLimitStore prefers the Redis-backed throttle when Redis is
// configured so replicas share state; otherwise falls back to the in-process
// store. A zero limit disables throttling entirely.
func buildRateLimitStore(cfg config.Config, log *slog.Logger) (ratelimit.Store, func(), error) {
	if cfg.RegisterRateLimit <= 0 {
		return nil, func() {}, nil
	}

	client, err := platformredis.New(cfg.RedisConfig)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("rate limit store: in-memory")
		return ratelimit.NewInMemoryStore(), func() {}, nil
	}

	log.Info("rate limit store: redis")
	return ratelimit.NewRedisStore(client.Client), func() { _ = client.Close() }, nil
}
