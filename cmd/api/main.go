package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"participant_portal_backend/internal/auth"
	"participant_portal_backend/internal/events"
	apphttp "participant_portal_backend/internal/http"
	"participant_portal_backend/internal/http/router"
	"participant_portal_backend/internal/leads"
	"participant_portal_backend/internal/users"
	"participant_portal_backend/migrations"
	"participant_portal_backend/platform/config"
	"participant_portal_backend/platform/db"
	"participant_portal_backend/platform/logger"
	"participant_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		var connErr error
		pool, connErr = db.NewPool(ctx, cfg)
		return connErr
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.IsRedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The profile cache is an optimization; run without it.
			log.Warn("redis unavailable, profile cache disabled", "error", err)
			redisClient = nil
		}
	}

	val := validator.New()

	bus := events.NewInMemoryBus(log)
	bus.Subscribe(events.LeadConverted{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadConverted)
		if !ok {
			return nil
		}
		log.Info("lead converted",
			"leadId", e.LeadID,
			"participationId", e.ParticipationID,
			"organizationId", e.OrganizationID,
			"batch", e.Batch,
		)
		return nil
	}))

	// ========================================================================
	// Modules
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: bus,
		Modules: []apphttp.Module{
			auth.NewModule(pool, cfg, val, log),
			users.NewModule(pool, redisClient, cfg.ProfileCacheTTL, log),
			leads.NewModule(pool, bus, val, log),
		},
	}

	engine := router.New(app)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// withRetry runs fn up to attempts times, waiting delay between failures.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warn("retrying", "operation", name, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
