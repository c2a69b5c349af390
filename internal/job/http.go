// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package job

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/saberhq/saber/internal/platform/request"
	"github.com/saberhq/saber/internal/platform/respond"
	"github.com/saberhq/saber/pkg/pagination"
)

// Handler implements job HTTP endpoints.
type Handler struct {
	jobService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{jobService: service}
}

// CreateRoutes returns the router for job creation (mounted at /job).
func (handler *Handler) CreateRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.create)
	return router
}

// RecruiterRoutes returns the recruiter job-management routes
// (mounted at /recruiters).
func (handler *Handler) RecruiterRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/jobs", handler.list)
	router.Put("/job/{jobID}", handler.update)
	router.Delete("/job/{jobID}", handler.remove)
	return router
}

// ApplicationRoutes returns the application review routes
// (mounted at /candidates).
func (handler *Handler) ApplicationRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/jobs/{jobID}/applications", handler.applications)
	router.Put("/applications/{applicationID}/status", handler.updateApplicationStatus)
	return router
}

// jobPayload represents the JSON body shared by create and update requests.
type jobPayload struct {
	ProblemStatement *string      `json:"problem_statement"`
	Expectations     *string      `json:"expectations"`
	NonNegotiables   *string      `json:"non_negotiables"`
	DealBreakers     *string      `json:"deal_breakers"`
	SkillsRequired   []string     `json:"skills_required"`
	Constraints      *Constraints `json:"constraints"`
	Active           *bool        `json:"active"`
}

// create handles POST /job requests.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input jobPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	createInput := CreateInput{
		SkillsRequired: input.SkillsRequired,
	}
	if input.ProblemStatement != nil {
		createInput.ProblemStatement = *input.ProblemStatement
	}
	if input.Expectations != nil {
		createInput.Expectations = *input.Expectations
	}
	if input.NonNegotiables != nil {
		createInput.NonNegotiables = *input.NonNegotiables
	}
	if input.DealBreakers != nil {
		createInput.DealBreakers = *input.DealBreakers
	}
	if input.Constraints != nil {
		createInput.Constraints = *input.Constraints
	}

	job, err := handler.jobService.Create(request.Context(), userID, createInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, job)
}

// list handles GET /recruiters/jobs requests.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	jobs, meta, err := handler.jobService.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, jobs, meta)
}

// update handles PUT /recruiters/job/{jobID} requests.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input jobPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	job, err := handler.jobService.Update(request.Context(), userID, requestutil.ID(request, "jobID"), UpdateInput{
		ProblemStatement: input.ProblemStatement,
		Expectations:     input.Expectations,
		NonNegotiables:   input.NonNegotiables,
		DealBreakers:     input.DealBreakers,
		SkillsRequired:   input.SkillsRequired,
		Constraints:      input.Constraints,
		Active:           input.Active,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, job)
}

// remove handles DELETE /recruiters/job/{jobID} requests.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.jobService.Delete(request.Context(), userID, requestutil.ID(request, "jobID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// applications handles GET /candidates/jobs/{jobID}/applications requests.
func (handler *Handler) applications(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	applications, err := handler.jobService.Applications(request.Context(), userID, requestutil.ID(request, "jobID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, applications)
}

// statusRequest represents the JSON payload of a review-state change.
type statusRequest struct {
	Status ApplicationStatus `json:"status"`
}

// updateApplicationStatus handles PUT /candidates/applications/{applicationID}/status.
func (handler *Handler) updateApplicationStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	application, err := handler.jobService.UpdateApplicationStatus(request.Context(), userID, requestutil.ID(request, "applicationID"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, application)
}
