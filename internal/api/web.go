// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saberhq/saber/internal/gate"
	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/session"
	"github.com/saberhq/saber/pkg/uuid"
)

// PageSessions is the slice of the session store the web tier needs.
type PageSessions interface {
	Snapshot(ctx context.Context, sessionID string) session.Snapshot
	Login(ctx context.Context, sessionID, token string)
}

// CodeExchanger completes the server-side leg of the OAuth flow.
type CodeExchanger interface {
	OAuthSignIn(ctx context.Context, input identity.OAuthSignInInput) (*identity.SignInResult, error)
}

// WebHandler serves every page navigation: it evaluates the caller's session
// against the navigation gate and answers with the SPA shell, a loading
// placeholder, or a redirect.
type WebHandler struct {
	sessions      PageSessions
	exchanger     CodeExchanger
	shellPath     string
	redirectURI   string
	secureCookies bool
	logger        *slog.Logger
}

// NewWebHandler constructs a new [WebHandler].
//
// # Parameters
//   - shellPath: filesystem path of the built SPA index.html. Empty serves a
//     built-in minimal shell.
//   - redirectURI: the OAuth redirect URI registered with the providers.
//   - secureCookies: mark the session cookie Secure (production).
func NewWebHandler(sessions PageSessions, exchanger CodeExchanger, shellPath, redirectURI string, secureCookies bool, logger *slog.Logger) *WebHandler {
	return &WebHandler{
		sessions:      sessions,
		exchanger:     exchanger,
		shellPath:     shellPath,
		redirectURI:   redirectURI,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Register mounts every page route of the navigation table onto the router.
//
// apiOverlays maps paths that double as JSON API endpoints (e.g. GET
// /matches) to their API handler; such requests are dispatched by content
// negotiation.
func (handler *WebHandler) Register(router chi.Router, apiOverlays map[string]http.HandlerFunc) {
	for _, route := range gate.Table() {
		page := handler.pageHandler(route)
		if apiHandler, ok := apiOverlays[route.Path]; ok {
			page = negotiate(apiHandler, page)
		}
		router.Get(route.Path, page)
	}
}

// pageHandler builds the handler for one navigation-table entry.
func (handler *WebHandler) pageHandler(route gate.Route) http.HandlerFunc {
	switch route.Guard {
	case gate.GuardPublic:
		switch route.Path {
		case constants.PathAuthCallback:
			return handler.authCallback
		case constants.PathUnauthorized:
			return handler.unauthorizedPage
		default:
			return func(writer http.ResponseWriter, request *http.Request) {
				handler.serveShell(writer, request)
			}
		}

	case gate.GuardGuest:
		return func(writer http.ResponseWriter, request *http.Request) {
			sessionID := handler.ensureSession(writer, request)
			snapshot := handler.sessions.Snapshot(request.Context(), sessionID)
			handler.apply(writer, request, gate.EvaluateGuest(snapshot))
		}

	default:
		return func(writer http.ResponseWriter, request *http.Request) {
			sessionID := handler.ensureSession(writer, request)
			snapshot := handler.sessions.Snapshot(request.Context(), sessionID)
			decision := gate.EvaluateProtected(snapshot, request.URL.Path, route.Roles)
			handler.apply(writer, request, decision)
		}
	}
}

// apply translates a gate decision into an HTTP response.
func (handler *WebHandler) apply(writer http.ResponseWriter, request *http.Request, decision gate.Decision) {
	switch decision.Kind {
	case gate.KindRedirect:
		http.Redirect(writer, request, decision.Target, http.StatusSeeOther)
	case gate.KindLoading:
		handler.loadingPage(writer)
	default:
		handler.serveShell(writer, request)
	}
}

// authCallback handles the GET /auth/callback page navigation.
//
// # Flow
//  1. Exchange the provider code server-side.
//  2. Log the browser session in with the platform token.
//  3. Redirect onboarded callers to the dashboard, everyone else to
//     onboarding.
func (handler *WebHandler) authCallback(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	provider := params.Get("provider")
	code := params.Get("code")
	if provider == "" || code == "" {
		http.Redirect(writer, request, constants.PathLogin, http.StatusSeeOther)
		return
	}

	sessionID := handler.ensureSession(writer, request)

	result, err := handler.exchanger.OAuthSignIn(request.Context(), identity.OAuthSignInInput{
		Provider:    provider,
		Code:        code,
		RedirectURI: handler.redirectURI,
	})
	if err != nil {
		handler.logger.Warn("oauth_callback_page_failed",
			slog.String("provider", provider),
			slog.Any("error", err),
		)
		http.Redirect(writer, request, constants.PathLogin+"?error=oauth", http.StatusSeeOther)
		return
	}

	handler.sessions.Login(request.Context(), sessionID, result.Token)

	destination := constants.PathOnboarding
	if result.User.Role == "admin" || result.User.HasCompany() {
		destination = constants.PathDashboard
	}
	http.Redirect(writer, request, destination, http.StatusSeeOther)
}

// ensureSession returns the caller's browser session ID, minting the cookie
// on first contact.
func (handler *WebHandler) ensureSession(writer http.ResponseWriter, request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New()
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

// serveShell delivers the SPA entry document.
func (handler *WebHandler) serveShell(writer http.ResponseWriter, request *http.Request) {
	if handler.shellPath != "" {
		http.ServeFile(writer, request, handler.shellPath)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = writer.Write([]byte(builtinShell))
}

// loadingPage renders the resolution placeholder. It refreshes itself so the
// gate re-evaluates once the profile resolution settles.
func (handler *WebHandler) loadingPage(writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write([]byte(loadingShell))
}

// unauthorizedPage renders the Access Denied page.
func (handler *WebHandler) unauthorizedPage(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusForbidden)
	_, _ = writer.Write([]byte(unauthorizedShell))
}

// negotiate dispatches a path shared by the JSON API and a page route.
// Bearer or JSON-accepting callers get the API, browsers get the page.
func negotiate(apiHandler, pageHandler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get(constants.HeaderAuthorization) != "" ||
			strings.Contains(request.Header.Get("Accept"), "application/json") {
			apiHandler(writer, request)
			return
		}
		pageHandler(writer, request)
	}
}

const builtinShell = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Saber</title>
</head>
<body>
  <div id="root"></div>
  <script type="module" src="/static/app.js"></script>
</body>
</html>
`

const loadingShell = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta http-equiv="refresh" content="1">
  <title>Saber</title>
</head>
<body>
  <p>Loading your workspace&hellip;</p>
</body>
</html>
`

const unauthorizedShell = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Access denied - Saber</title>
</head>
<body>
  <h1>Access denied</h1>
  <p>Your account does not have access to this page.</p>
  <p><a href="/">Back to start</a></p>
</body>
</html>
`
