// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Command api is the entry point for the Saber server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the session store, domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saberhq/saber/internal/admin"
	"github.com/saberhq/saber/internal/api"
	"github.com/saberhq/saber/internal/company"
	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/job"
	"github.com/saberhq/saber/internal/match"
	"github.com/saberhq/saber/internal/platform/config"
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/migration"
	pgstore "github.com/saberhq/saber/internal/platform/postgres"
	redisstore "github.com/saberhq/saber/internal/platform/redis"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Saber] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := identity.NewUserRepository(pool)
	providers := identity.NewProviderRegistry(
		cfg.GoogleClientID, cfg.GoogleClientSecret,
		cfg.LinkedInClientID, cfg.LinkedInClientSecret,
	)
	identityService := identity.NewService(userRepository, providers, jwtSvc, jwtSvc, cfg.AdminEmail)

	// The session store backs both the page gate and the API interceptors.
	tokenSlot := session.NewRedisTokenSlot(rdb)
	sessionStore := session.NewStore(tokenSlot, identityService, log)

	companyRepository := company.NewCompanyRepository(pool)
	companyService := company.NewService(companyRepository, userRepository)

	jobRepository := job.NewJobRepository(pool)
	jobService := job.NewService(jobRepository, userRepository)

	matchRepository := match.NewMatchRepository(pool)
	matchService := match.NewService(matchRepository, userRepository, jobRepository)

	metricsRepository := admin.NewMetricsRepository(pool)
	adminService := admin.NewService(metricsRepository, rdb)

	webHandler := api.NewWebHandler(
		sessionStore,
		identityService,
		cfg.WebShellPath,
		cfg.OAuthRedirectURL(),
		cfg.IsProduction(),
		log,
	)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Identity:  identity.NewHandler(identityService, sessionStore),
		Company:   company.NewHandler(companyService, sessionStore),
		Job:       job.NewHandler(jobService),
		Match:     match.NewHandler(matchService),
		Admin:     admin.NewHandler(adminService),
		Web:       webHandler,
	}

	// The server context outlives startup: it bounds the rate limiter's
	// background cleanup.
	server := api.NewServer(context.Background(), cfg, log, jwtSvc, sessionStore, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
