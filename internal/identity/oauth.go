// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"github.com/saberhq/saber/internal/platform/apperr"
)

// Supported OAuth provider names as they appear in the callback payload.
const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

const googleIssuer = "https://accounts.google.com"

// linkedinUserInfoURL is LinkedIn's OpenID Connect userinfo endpoint.
const linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"

// exchangeTimeout bounds the full code-exchange round trip to the provider.
const exchangeTimeout = 10 * time.Second

// ExternalIdentity is the provider-agnostic profile extracted from a
// successful OAuth code exchange.
type ExternalIdentity struct {
	Subject  string
	Email    string
	Name     string
	PhotoURL string
}

// Provider exchanges an authorization code for a verified external identity.
//
// # Why an interface?
//
// The sign-in service only cares about the resulting identity. Keeping the
// provider behind an interface lets tests stub the network round trip and
// keeps google/linkedin specifics out of the service layer.
type Provider interface {
	Exchange(ctx context.Context, code, redirectURI string) (*ExternalIdentity, error)
}

// ProviderRegistry maps provider names from the callback payload to their
// configured [Provider] implementations.
type ProviderRegistry struct {
	providers map[string]Provider
}

// NewProviderRegistry wires the configured providers. Providers with missing
// credentials are left out of the registry and rejected at lookup time.
func NewProviderRegistry(googleClientID, googleClientSecret, linkedinClientID, linkedinClientSecret string) *ProviderRegistry {
	registry := &ProviderRegistry{providers: make(map[string]Provider)}

	if googleClientID != "" && googleClientSecret != "" {
		registry.providers[ProviderGoogle] = &googleProvider{
			clientID:     googleClientID,
			clientSecret: googleClientSecret,
		}
	}

	if linkedinClientID != "" && linkedinClientSecret != "" {
		registry.providers[ProviderLinkedIn] = &linkedinProvider{
			clientID:     linkedinClientID,
			clientSecret: linkedinClientSecret,
		}
	}

	return registry
}

// Lookup returns the provider registered under the given name.
//
// Returns [apperr.ValidationError] for unknown or unconfigured providers.
func (registry *ProviderRegistry) Lookup(name string) (Provider, error) {
	provider, ok := registry.providers[name]
	if !ok {
		return nil, apperr.ValidationError("Unsupported sign-in provider", apperr.FieldError{
			Field:   "provider",
			Message: "Must be a configured provider (google, linkedin)",
		})
	}
	return provider, nil
}

// ── Google (OpenID Connect) ──────────────────────────────────────────────────

// googleProvider verifies Google sign-ins through full OIDC discovery:
// the authorization code is exchanged for tokens and the returned ID token
// is cryptographically verified against Google's published keys.
type googleProvider struct {
	clientID     string
	clientSecret string

	initOnce sync.Once
	initErr  error
	oidcProv *oidc.Provider
}

// discover performs OIDC discovery once, on first use rather than at startup,
// so the server can boot without outbound network access.
func (p *googleProvider) discover(ctx context.Context) error {
	p.initOnce.Do(func() {
		provider, err := oidc.NewProvider(ctx, googleIssuer)
		if err != nil {
			p.initErr = fmt.Errorf("identity_google_discovery_failed: %w", err)
			return
		}
		p.oidcProv = provider
	})
	return p.initErr
}

// Exchange implements [Provider] for Google.
func (p *googleProvider) Exchange(ctx context.Context, code, redirectURI string) (*ExternalIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	// ── 1. OIDC Discovery ─────────────────────────────────────────────────
	if err := p.discover(ctx); err != nil {
		return nil, apperr.BadGateway("Sign-in provider unavailable", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     p.oidcProv.Endpoint(),
		RedirectURL:  redirectURI,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	// ── 2. Code Exchange ──────────────────────────────────────────────────
	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Unauthorized("Authorization code rejected by provider")
	}

	// ── 3. ID Token Verification ──────────────────────────────────────────
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, apperr.BadGateway("Provider response missing ID token", nil)
	}

	verifier := p.oidcProv.Verifier(&oidc.Config{ClientID: p.clientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperr.Unauthorized("Provider ID token failed verification")
	}

	// ── 4. Claim Extraction ───────────────────────────────────────────────
	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("identity_google_claims_decode_failed: %w", err)
	}

	if claims.Email == "" {
		return nil, apperr.Unauthorized("Provider did not supply an email address")
	}

	return &ExternalIdentity{
		Subject:  idToken.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		PhotoURL: claims.Picture,
	}, nil
}

// ── LinkedIn (OAuth 2.0 + userinfo) ──────────────────────────────────────────

// linkedinProvider exchanges codes against LinkedIn's OAuth endpoints and
// reads the profile from the userinfo endpoint with the access token.
type linkedinProvider struct {
	clientID     string
	clientSecret string
}

// Exchange implements [Provider] for LinkedIn.
func (p *linkedinProvider) Exchange(ctx context.Context, code, redirectURI string) (*ExternalIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	oauthConfig := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     linkedin.Endpoint,
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "profile", "email"},
	}

	// ── 1. Code Exchange ──────────────────────────────────────────────────
	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Unauthorized("Authorization code rejected by provider")
	}

	// ── 2. Profile Fetch ──────────────────────────────────────────────────
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("identity_linkedin_userinfo_request_failed: %w", err)
	}

	response, err := oauthConfig.Client(ctx, token).Do(request)
	if err != nil {
		return nil, apperr.BadGateway("Sign-in provider unavailable", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return nil, apperr.BadGateway(fmt.Sprintf("Provider userinfo returned %d", response.StatusCode), nil)
	}

	// ── 3. Claim Extraction ───────────────────────────────────────────────
	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(response.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("identity_linkedin_claims_decode_failed: %w", err)
	}

	if claims.Email == "" {
		return nil, apperr.Unauthorized("Provider did not supply an email address")
	}

	return &ExternalIdentity{
		Subject:  claims.Sub,
		Email:    claims.Email,
		Name:     claims.Name,
		PhotoURL: claims.Picture,
	}, nil
}
