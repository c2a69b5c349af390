// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/session"
)

// stubResolver maps tokens to canned profiles.
type stubResolver struct {
	profiles map[string]*identity.User
}

func (s *stubResolver) ResolveProfile(_ context.Context, token string) (*identity.User, error) {
	user, ok := s.profiles[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	return user, nil
}

// stubExchanger fakes the server-side OAuth code exchange.
type stubExchanger struct {
	result *identity.SignInResult
	err    error
}

func (s *stubExchanger) OAuthSignIn(_ context.Context, _ identity.OAuthSignInInput) (*identity.SignInResult, error) {
	return s.result, s.err
}

type webFixture struct {
	router   chi.Router
	sessions *session.Store
}

func newWebFixture(t *testing.T, resolver session.ProfileResolver, exchanger CodeExchanger) *webFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(session.NewMemoryTokenSlot(), resolver, logger)

	handler := NewWebHandler(store, exchanger, "", "http://localhost/auth/callback", false, logger)
	router := chi.NewRouter()
	handler.Register(router, nil)

	return &webFixture{router: router, sessions: store}
}

// get performs a page navigation with an optional session cookie.
func (f *webFixture) get(path, sessionID string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	request.Header.Set("Accept", "text/html")
	if sessionID != "" {
		request.AddCookie(&http.Cookie{Name: "saber_sid", Value: sessionID})
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

// settle waits until the session's async profile resolution finishes.
func (f *webFixture) settle(t *testing.T, sessionID string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !f.sessions.Snapshot(context.Background(), sessionID).Loading
	}, 2*time.Second, 5*time.Millisecond)
}

/*
TestWeb_AnonymousNavigation verifies the two anonymous baselines: protected
pages bounce to the login page and guest pages render.
*/
func TestWeb_AnonymousNavigation(t *testing.T) {
	fixture := newWebFixture(t, &stubResolver{profiles: map[string]*identity.User{}}, &stubExchanger{})

	// ── 1. Protected page redirects to /login ─────────────────────────────

	response := fixture.get("/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/login", response.Header().Get("Location"))

	// First contact mints the session cookie.
	assert.NotEmpty(t, response.Header().Get("Set-Cookie"))

	// ── 2. Guest page renders ─────────────────────────────────────────────

	response = fixture.get("/login", "")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "<div id=\"root\">")
}

/*
TestWeb_OnboardedRecruiterNavigation verifies the authenticated happy path:
protected pages render, guest pages bounce to the dashboard, and revisiting
onboarding bounces back out.
*/
func TestWeb_OnboardedRecruiterNavigation(t *testing.T) {
	resolver := &stubResolver{profiles: map[string]*identity.User{
		"tok-recruiter": {ID: "u-1", Role: sec.RoleRecruiter, CompanyID: "company-1"},
	}}
	fixture := newWebFixture(t, resolver, &stubExchanger{})

	fixture.sessions.Login(context.Background(), "sid-1", "tok-recruiter")
	fixture.settle(t, "sid-1")

	response := fixture.get("/dashboard", "sid-1")
	assert.Equal(t, http.StatusOK, response.Code)

	response = fixture.get("/login", "sid-1")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/dashboard", response.Header().Get("Location"))

	response = fixture.get("/onboarding", "sid-1")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/", response.Header().Get("Location"))
}

/*
TestWeb_FreshCandidateIsFunneledToOnboarding verifies that a signed-in
account that still needs onboarding cannot reach any other protected page.
*/
func TestWeb_FreshCandidateIsFunneledToOnboarding(t *testing.T) {
	resolver := &stubResolver{profiles: map[string]*identity.User{
		"tok-new": {ID: "u-2", Role: sec.RoleCandidate, Onboarding: true},
	}}
	fixture := newWebFixture(t, resolver, &stubExchanger{})

	fixture.sessions.Login(context.Background(), "sid-2", "tok-new")
	fixture.settle(t, "sid-2")

	response := fixture.get("/jobs", "sid-2")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/onboarding", response.Header().Get("Location"))

	response = fixture.get("/onboarding", "sid-2")
	assert.Equal(t, http.StatusOK, response.Code)
}

/*
TestWeb_AuthCallbackPage verifies the server-side OAuth leg.

 1. A fresh account is redirected to onboarding and the session holds the
    issued token.
 2. A failing exchange bounces back to the login page.
*/
func TestWeb_AuthCallbackPage(t *testing.T) {
	newUser := &identity.User{ID: "u-3", Role: sec.RoleCandidate, Onboarding: true}
	resolver := &stubResolver{profiles: map[string]*identity.User{"tok-3": newUser}}
	fixture := newWebFixture(t, resolver, &stubExchanger{
		result: &identity.SignInResult{Token: "tok-3", User: newUser},
	})

	response := fixture.get("/auth/callback?provider=google&code=abc", "sid-3")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/onboarding", response.Header().Get("Location"))

	fixture.settle(t, "sid-3")
	snapshot := fixture.sessions.Snapshot(context.Background(), "sid-3")
	assert.Equal(t, "tok-3", snapshot.Token)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "u-3", snapshot.User.ID)

	// ── 2. Failed exchange ────────────────────────────────────────────────

	broken := newWebFixture(t, resolver, &stubExchanger{err: apperr.Unauthorized("code rejected")})
	response = broken.get("/auth/callback?provider=google&code=bad", "sid-4")
	assert.Equal(t, http.StatusSeeOther, response.Code)
	assert.Equal(t, "/login?error=oauth", response.Header().Get("Location"))
}

/*
TestWeb_UnauthorizedPageAlwaysRenders verifies the public Access Denied page.
*/
func TestWeb_UnauthorizedPageAlwaysRenders(t *testing.T) {
	fixture := newWebFixture(t, &stubResolver{profiles: map[string]*identity.User{}}, &stubExchanger{})

	response := fixture.get("/unauthorized", "")
	assert.Equal(t, http.StatusForbidden, response.Code)
	assert.Contains(t, response.Body.String(), "Access denied")
}
