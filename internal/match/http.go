// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package match

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/saberhq/saber/internal/platform/request"
	"github.com/saberhq/saber/internal/platform/respond"
	"github.com/saberhq/saber/pkg/convert"
	"github.com/saberhq/saber/pkg/query"
)

// Handler implements matching HTTP endpoints.
type Handler struct {
	matchService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{matchService: service}
}

// FeedRoutes returns the recruiter discovery routes (mounted at /recruiter).
func (handler *Handler) FeedRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/feed", handler.feed)
	router.Post("/swipe", handler.swipe)
	return router
}

// SignalRoutes returns the candidate signal routes
// (mounted at /recruiters/signals).
func (handler *Handler) SignalRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.signals)
	return router
}

// List handles GET /matches API requests. It is registered method-level on
// the root router because GET /matches is also a page route; the server
// dispatches on content negotiation.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	matches, err := handler.matchService.Matches(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, matches)
}

// messageRequest represents the JSON payload of a chat message.
type messageRequest struct {
	MatchID string `json:"match_id"`
	Content string `json:"content"`
}

// SendMessage handles POST /matches/messages requests.
func (handler *Handler) SendMessage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input messageRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.matchService.SendMessage(request.Context(), userID, input.MatchID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

// feed handles GET /recruiter/feed requests.
//
// Query parameters: skills (comma-separated filter terms), limit.
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	skills := query.StringSlice(request.URL.Query().Get("skills"))
	limit := convert.ToInt(request.URL.Query().Get("limit"))

	cards, err := handler.matchService.Feed(request.Context(), userID, skills, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, cards)
}

// swipeRequest represents the JSON payload of a recruiter swipe.
type swipeRequest struct {
	CandidateID string         `json:"candidate_id"`
	JobID       string         `json:"job_id"`
	Direction   SwipeDirection `json:"direction"`
}

// swipe handles POST /recruiter/swipe requests.
func (handler *Handler) swipe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input swipeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.matchService.RecordSwipe(request.Context(), userID, SwipeInput{
		CandidateID: input.CandidateID,
		JobID:       input.JobID,
		Direction:   input.Direction,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// signals handles GET /recruiters/signals requests.
func (handler *Handler) signals(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit := convert.ToInt(request.URL.Query().Get("limit"))

	signals, err := handler.matchService.Signals(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signals)
}
