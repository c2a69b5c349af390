// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/ctxutil"
	"github.com/saberhq/saber/internal/platform/respond"
	"github.com/saberhq/saber/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the sec package's
// concrete TokenService, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionTokens is the slice of the session store the middleware needs: it can
// look up the bearer token held by a browser session, and discard it when the
// credential turns out to be dead.
type SessionTokens interface {
	Token(ctx context.Context, sessionID string) (string, error)
	ClearToken(ctx context.Context, sessionID string) error
}

// Authenticate establishes the caller's identity for the request.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, fall back to the browser session's durable token slot
//     (identified by the saber_sid cookie, injected by [SessionID]).
//  3. If neither source yields a token, the request proceeds as anonymous.
//  4. Verify the token via [TokenVerifier] and inject [*sec.AuthClaims]
//     into the request context for downstream use.
//
// A malformed or expired explicit bearer token is rejected with 401. A dead
// session token is different: the slot is cleared (so the next page load sees
// a logged-out session) and the request continues anonymously — the handler's
// own auth requirements decide whether that is fatal.
func Authenticate(verifier TokenVerifier, sessions SessionTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Explicit Bearer Token ──────────────────────────────────────
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(parts[1])
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := ctxutil.WithAuthUser(request.Context(), claims)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 2. Browser Session Fallback ───────────────────────────────────
			sessionID := ctxutil.GetSessionID(request.Context())
			if sessionID == "" || sessions == nil {
				next.ServeHTTP(writer, request)
				return
			}

			token, err := sessions.Token(request.Context(), sessionID)
			if err != nil || token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				// The stored credential is dead: drop it so the session
				// converges to logged-out instead of retrying forever.
				_ = sessions.ClearToken(request.Context(), sessionID)
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose authenticated role is outside the allowed set.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// Roles are a flat set, not a hierarchy: a route guarded with
// Roles(RoleRecruiter, RoleAdmin) rejects candidates even though an admin
// outranks them elsewhere. An empty or nil set only requires authentication.
func RequireRole(allowed sec.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if len(allowed) > 0 && !allowed.Contains(sec.Role(claims.Role)) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
