// Command server runs the finance tracker HTTP API.
//
//	@title						Finance Tracker API
//	@version					1.0
//	@description				Personal income and expense tracking with per-user categories and stats.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token as "Bearer <token>". The session cookie is tried first; the header is used when the cookie does not resolve.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/api"
	"github.com/ledgerbook/finance-tracker/internal/api/handler"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
	"github.com/ledgerbook/finance-tracker/internal/core/service"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/amqp"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/memory"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/redis"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/http/handlers"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/queue"
	"github.com/ledgerbook/finance-tracker/internal/pkg/config"
	"github.com/ledgerbook/finance-tracker/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "finance-tracker",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Session.SecretGenerated {
		log.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	// --- Store ---
	store, err := db.Open(ctx, cfg.Store, cfg.Mongo)
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "store", store.Close)
	log.Info().Str("backend", store.Backend).Msg("store opened")

	readiness := []handlers.Dependency{{Name: store.Backend, Check: store.Ping}}

	// --- Sessions ---
	var sessions ports.SessionStore
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()

		sessions = redis.NewSessionStore(client)
		readiness = append(readiness, handlers.Dependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")
	} else {
		sessions = memory.NewSessionStore()
		log.Info().Msg("sessions stored in memory")
	}

	// --- Activity feed ---
	var sink queue.Sink
	if cfg.Activity.AMQPURL != "" {
		publisher, err := amqp.Dial(cfg.Activity.AMQPURL, cfg.Activity.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()

		sink = publisher
		readiness = append(readiness, handlers.Dependency{Name: "amqp", Check: publisher.Ping})
		log.Info().Str("exchange", cfg.Activity.Exchange).Msg("activity published to amqp")
	} else {
		sink = queue.NewLogSink(log)
	}

	dispatcher := startDispatcher(cfg.Activity.Workers, sink, log)
	defer dispatcher.Close()

	// --- Services ---
	gate := service.NewSessionGate(store.Users, sessions, cfg.Session.Secret, cfg.Session.Lifetime, log)
	authSvc := service.NewAuthService(store.Users, gate, dispatcher, log)
	categorySvc := service.NewCategoryService(store.Categories, cfg.Categories.AllowGlobalDelete, dispatcher, log)
	transactionSvc := service.NewTransactionService(store.Transactions, dispatcher, log)
	statsSvc := service.NewStatsService(store.Transactions)

	if _, err := categorySvc.SeedDefaults(ctx, cfg.Categories.Seed); err != nil {
		return err
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:         authSvc,
		Gate:         gate,
		Categories:   categorySvc,
		Transactions: transactionSvc,
		Stats:        statsSvc,
		Cookie: handler.CookieConfig{
			Name:     cfg.Session.CookieName,
			Secure:   cfg.Session.CookieSecure,
			Lifetime: cfg.Session.Lifetime,
		},
		Readiness: readiness,
		Log:       log,
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// startDispatcher runs the activity workers detached from the signal
// context, so events recorded while in-flight requests finish during
// shutdown are still delivered; Close drains them.
func startDispatcher(workers int, sink queue.Sink, log zerolog.Logger) *queue.Dispatcher {
	d := queue.NewDispatcher(workers, sink, log)
	d.Start(context.Background())
	return d
}

func closeWithTimeout(log zerolog.Logger, name string, closeFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := closeFn(ctx); err != nil {
		log.Error().Err(err).Str("component", name).Msg("close failed")
	}
}
