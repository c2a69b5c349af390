// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuers, browser session cookie configuration.
  - Navigation: Canonical page paths used by the navigation gate.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "saber-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "saber.app"

	// AccessTokenTTL is the lifetime of a platform bearer token.
	AccessTokenTTL = 7 * 24 * time.Hour

	// SessionCookieName identifies the browser session that carries the
	// durable token slot and the cached profile.
	SessionCookieName = "saber_sid"

	// SessionCookiePath scopes the browser session cookie to the whole site
	// so both page navigations and API calls can present it.
	SessionCookiePath = "/"

	// SessionTTL is how long an idle browser session survives in the slot store.
	SessionTTL = 30 * 24 * time.Hour
)

// # Navigation (canonical page paths)

const (
	PathLanding      = "/"
	PathLogin        = "/login"
	PathAuthCallback = "/auth/callback"
	PathOnboarding   = "/onboarding"
	PathDashboard    = "/dashboard"
	PathUnauthorized = "/unauthorized"
)

// # Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldToken   = "token"
	FieldUser    = "user"
)

// # Database Schemas

const (
	SchemaIdentity   = "identity"
	SchemaRecruiting = "recruiting"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixTokenSlot is the durable bearer-credential slot, one key
	// per browser session.
	RedisPrefixTokenSlot = "session:token:"

	// RedisPrefixAIKey stores bcrypt hashes of issued AI service keys.
	RedisPrefixAIKey = "admin:ai_key:"
)
