// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package company

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saberhq/saber/internal/platform/ctxutil"
	requestutil "github.com/saberhq/saber/internal/platform/request"
	"github.com/saberhq/saber/internal/platform/respond"
)

// SessionRefresher re-resolves the caller's browser-session profile after the
// company link changes, so the navigation gate sees the new company_id.
type SessionRefresher interface {
	RefreshUser(ctx context.Context, sessionID string)
}

// Handler implements company HTTP endpoints.
type Handler struct {
	companyService *Service
	sessions       SessionRefresher
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, sessions SessionRefresher) *Handler {
	return &Handler{companyService: service, sessions: sessions}
}

// RecruiterRoutes returns the recruiter-facing company routes
// (mounted at /recruiters/company).
func (handler *Handler) RecruiterRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.mine)
	return router
}

// createRequest represents the JSON payload for company registration.
type createRequest struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}

// Create handles POST /company requests. It is registered method-level on
// the root router because GET /company is a page route.
//
// # Returns
//   - Writes HTTP 201 Created with the new company.
//   - Writes HTTP 409 Conflict if the derived slug is taken.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	company, err := handler.companyService.Create(request.Context(), userID, CreateInput{
		Name:    input.Name,
		Website: input.Website,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The account gained a company_id; refresh the browser session so the
	// next navigation clears the onboarding gate.
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		handler.sessions.RefreshUser(request.Context(), sessionID)
	}

	respond.Created(writer, company)
}

// mine handles GET /recruiters/company requests.
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	company, err := handler.companyService.Mine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, company)
}
