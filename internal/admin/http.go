// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saberhq/saber/internal/platform/respond"
)

// Handler implements operator HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns the operator routes (mounted at /admin, admin role only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/metrics", handler.metrics)
	router.Post("/ai/keys", handler.rotateAIKey)
	return router
}

// metrics handles GET /admin/metrics requests.
func (handler *Handler) metrics(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.adminService.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, overview)
}

// rotateAIKey handles POST /admin/ai/keys requests.
func (handler *Handler) rotateAIKey(writer http.ResponseWriter, request *http.Request) {
	grant, err := handler.adminService.RotateAIKey(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, grant)
}
