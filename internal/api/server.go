// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

/*
Package api wires together the HTTP router, middleware chain, the JSON API
handlers, and the gated page routes into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - API endpoints live at root-mounted paths matching the web client contract;
    page navigations are evaluated by the navigation gate before the shell is
    served.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saberhq/saber/internal/admin"
	"github.com/saberhq/saber/internal/company"
	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/job"
	"github.com/saberhq/saber/internal/match"
	"github.com/saberhq/saber/internal/platform/config"
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/middleware"
	"github.com/saberhq/saber/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Identity handles OAuth sign-in, profile reads and onboarding mutations.
	Identity *identity.Handler

	// Company handles company registration and lookup.
	Company *company.Handler

	// Job handles postings and the application inbox.
	Job *job.Handler

	// Match handles the inbox, feed, swipes and signals.
	Match *match.Handler

	// Admin handles the operator surface.
	Admin *admin.Handler

	// Web serves the gated page navigations and the SPA shell.
	Web *WebHandler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionTokens, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.SessionID())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, sessions))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Root-mounted paths matching the web client contract. Role sets mirror
	// the navigation table: recruiter surfaces admit admins too.
	recruiterOrAdmin := sec.Roles(sec.RoleRecruiter, sec.RoleAdmin)

	r.Mount("/auth", h.Identity.AuthRoutes())
	r.With(middleware.RequireAuth).Mount("/user", h.Identity.UserRoutes())

	r.With(middleware.RequireAuth).Post("/company", h.Company.Create)
	r.With(middleware.RequireRole(recruiterOrAdmin)).Mount("/job", h.Job.CreateRoutes())

	r.Route("/recruiters", func(api chi.Router) {
		api.Use(middleware.RequireRole(recruiterOrAdmin))
		api.Mount("/company", h.Company.RecruiterRoutes())
		api.Mount("/signals", h.Match.SignalRoutes())
		api.Mount("/", h.Job.RecruiterRoutes())
	})

	r.With(middleware.RequireRole(recruiterOrAdmin)).Mount("/candidates", h.Job.ApplicationRoutes())
	r.With(middleware.RequireRole(recruiterOrAdmin)).Mount("/recruiter", h.Match.FeedRoutes())
	r.With(middleware.RequireAuth).Post("/matches/messages", h.Match.SendMessage)

	r.With(middleware.RequireRole(sec.Roles(sec.RoleAdmin))).Mount("/admin", h.Admin.Routes())

	// # Page Routes
	// Every navigation runs through the gate. GET /matches doubles as an API
	// endpoint and is dispatched by content negotiation.
	h.Web.Register(r, map[string]http.HandlerFunc{
		"/matches": h.Match.List,
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
