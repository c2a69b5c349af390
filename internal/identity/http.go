// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// HTTP delivery layer for identity use cases.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package identity

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/ctxutil"
	requestutil "github.com/saberhq/saber/internal/platform/request"
	"github.com/saberhq/saber/internal/platform/respond"
)

// SessionController is the slice of the browser-session store the identity
// handlers drive: sign-in attaches the fresh token to the caller's session,
// logout clears it, and onboarding mutations force a profile re-resolution so
// the session reflects the new company_id.
type SessionController interface {
	Login(ctx context.Context, sessionID, token string)
	Logout(ctx context.Context, sessionID string)
	RefreshUser(ctx context.Context, sessionID string)
}

// Handler implements identity-related HTTP endpoints.
type Handler struct {
	identityService *Service
	sessions        SessionController
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, sessions SessionController) *Handler {
	return &Handler{identityService: service, sessions: sessions}
}

// AuthRoutes returns a [chi.Router] with the authentication entry points.
//
// # Endpoints
//   - POST /oauth/callback : Exchanges a provider code for a bearer token.
//   - GET  /me             : Returns the caller's resolved profile.
//   - POST /logout         : Clears the caller's browser session.
func (handler *Handler) AuthRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/oauth/callback", handler.oauthCallback)
	router.Get("/me", handler.me)
	router.Post("/logout", handler.logout)

	return router
}

// UserRoutes returns a [chi.Router] with the onboarding profile mutations.
//
// # Endpoints
//   - PUT  /role        : Chooses candidate or recruiter during onboarding.
//   - POST /intent      : Stores the candidate's free-text intent.
//   - POST /constraints : Stores the candidate's hard requirements.
//
// The server mounts this group behind RequireAuth.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.Put("/role", handler.updateRole)
	router.Post("/intent", handler.setIntent)
	router.Post("/constraints", handler.setConstraints)

	return router
}

// oauthCallbackRequest represents the JSON payload of the code exchange.
type oauthCallbackRequest struct {
	Provider    string `json:"provider"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// oauthCallback handles POST /auth/oauth/callback requests.
//
// # Returns
//   - Writes HTTP 200 OK with the bearer token and the resolved account.
//   - Writes HTTP 401 Unauthorized if the provider rejects the code.
func (handler *Handler) oauthCallback(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input oauthCallbackRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	result, err := handler.identityService.OAuthSignIn(request.Context(), OAuthSignInInput{
		Provider:    input.Provider,
		Code:        input.Code,
		RedirectURI: input.RedirectURI,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Browser Session Attachment ─────────────────────────────────────

	// When the exchange comes from a browser with a session cookie, the new
	// credential also becomes that session's durable token.
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		handler.sessions.Login(request.Context(), sessionID, result.Token)
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, map[string]any{
		constants.FieldToken: result.Token,
		constants.FieldUser:  result.User,
	})
}

// me handles GET /auth/me requests.
//
// # Returns
//   - Writes HTTP 200 OK with the caller's profile.
//   - Writes HTTP 401 Unauthorized for anonymous callers.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{constants.FieldUser: user})
}

// logout handles POST /auth/logout requests.
//
// Logout is idempotent: a request without a session cookie, or for a session
// that is already logged out, still succeeds.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		handler.sessions.Logout(request.Context(), sessionID)
	}

	respond.NoContent(writer)
}

// updateRoleRequest represents the JSON payload for the role choice.
type updateRoleRequest struct {
	Role string `json:"role"`
}

// updateRole handles PUT /user/role requests.
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.UpdateRole(request.Context(), userID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.refreshSession(request)
	respond.OK(writer, map[string]any{constants.FieldUser: user})
}

// setIntentRequest represents the JSON payload for the intent step.
type setIntentRequest struct {
	IntentText string `json:"intent_text"`
}

// setIntent handles POST /user/intent requests.
func (handler *Handler) setIntent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setIntentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.SetIntent(request.Context(), userID, input.IntentText)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.refreshSession(request)
	respond.OK(writer, map[string]any{constants.FieldUser: user})
}

// setConstraintsRequest represents the JSON payload for the constraints step.
type setConstraintsRequest struct {
	MinSalary int  `json:"min_salary"`
	Remote    bool `json:"remote"`
}

// setConstraints handles POST /user/constraints requests.
func (handler *Handler) setConstraints(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setConstraintsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.SetConstraints(request.Context(), userID, &Constraints{
		MinSalary: input.MinSalary,
		Remote:    input.Remote,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.refreshSession(request)
	respond.OK(writer, map[string]any{constants.FieldUser: user})
}

// refreshSession re-resolves the caller's browser-session profile after a
// mutation that can change gating state (role, onboarding progress).
func (handler *Handler) refreshSession(request *http.Request) {
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		handler.sessions.RefreshUser(request.Context(), sessionID)
	}
}
