// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Sign-in and profile use cases for the Saber platform.
//
// # Architecture
//
// Services in this package orchestrate domain entities and interact with
// repositories through interfaces. They are technology-agnostic and do not
// know about HTTP or SQL.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/platform/validate"
	"github.com/saberhq/saber/pkg/uuid"
)

// TokenProvider defines the contract for generating platform bearer tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given account.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)
}

// TokenVerifier defines the contract for validating platform bearer tokens.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Service implements sign-in and profile use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to token issuance or the
// admin override must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	providers      *ProviderRegistry
	tokenProvider  TokenProvider
	tokenVerifier  TokenVerifier

	// adminEmail is granted the admin role on every sign-in regardless of the
	// stored role. Operator override for fresh deployments.
	adminEmail string
}

// NewService constructs a new identity [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	providers *ProviderRegistry,
	tokenProv TokenProvider,
	tokenVerif TokenVerifier,
	adminEmail string,
) *Service {
	return &Service{
		userRepository: userRepo,
		providers:      providers,
		tokenProvider:  tokenProv,
		tokenVerifier:  tokenVerif,
		adminEmail:     adminEmail,
	}
}

// OAuthSignInInput holds the payload of the OAuth callback exchange.
type OAuthSignInInput struct {
	Provider    string
	Code        string
	RedirectURI string
}

// SignInResult is a successfully established platform credential.
type SignInResult struct {
	Token string
	User  *User
}

// OAuthSignIn exchanges a provider authorization code for a platform bearer token.
//
// # Flow
//  1. Exchange the code with the named provider and verify the identity.
//  2. Upsert the account by email (first sign-in creates a candidate account
//     that still needs onboarding; later sign-ins refresh name/photo).
//  3. Apply the operator admin override if the email matches.
//  4. Issue a signed platform JWT.
//
// # Returns
//   - [SignInResult] with the bearer token and the resolved account.
//   - [apperr.Unauthorized] if the provider rejects the code.
func (service *Service) OAuthSignIn(ctx context.Context, input OAuthSignInInput) (*SignInResult, error) {
	// ── 1. Input Validation ───────────────────────────────────────────────

	v := &validate.Validator{}
	err := v.
		Required("provider", input.Provider).
		Required("code", input.Code).
		Required("redirect_uri", input.RedirectURI).
		URL("redirect_uri", input.RedirectURI).
		Err()
	if err != nil {
		return nil, err
	}

	// ── 2. Provider Exchange ──────────────────────────────────────────────

	provider, err := service.providers.Lookup(input.Provider)
	if err != nil {
		return nil, err
	}

	external, err := provider.Exchange(ctx, input.Code, input.RedirectURI)
	if err != nil {
		return nil, err
	}

	// ── 3. Account Upsert ─────────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(ctx, external.Email)
	if err != nil {
		if !apperr.IsAppError(err) {
			return nil, fmt.Errorf("identity_service_signin_lookup_failed: %w", err)
		}

		// First sign-in: create a fresh candidate account that still needs
		// onboarding. Role and company come later via the onboarding flow.
		user = &User{
			ID:         uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
			Email:      external.Email,
			Name:       external.Name,
			PhotoURL:   external.PhotoURL,
			Role:       sec.RoleCandidate,
			Onboarding: true,
		}
		if err := service.userRepository.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("identity_service_signin_create_failed: %w", err)
		}
	} else {
		// Returning account: refresh the provider-sourced profile fields.
		user.Name = external.Name
		user.PhotoURL = external.PhotoURL
		if err := service.userRepository.UpdateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("identity_service_signin_refresh_failed: %w", err)
		}
	}

	// ── 4. Admin Override ─────────────────────────────────────────────────

	if service.adminEmail != "" && user.Email == service.adminEmail && user.Role != sec.RoleAdmin {
		if err := service.userRepository.UpdateRole(ctx, user.ID, string(sec.RoleAdmin)); err != nil {
			return nil, fmt.Errorf("identity_service_admin_override_failed: %w", err)
		}
		user.Role = sec.RoleAdmin
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("identity_service_token_generation_failed: %w", err)
	}

	return &SignInResult{Token: token, User: user}, nil
}

// Me returns the full profile for an authenticated account.
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(ctx, userID)
}

// ResolveProfile maps a bearer token to its account profile.
//
// Any failure (malformed token, expired token, missing account) counts as
// "token no longer valid" — callers convert that into a logout.
func (service *Service) ResolveProfile(ctx context.Context, token string) (*User, error) {
	claims, err := service.tokenVerifier.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := service.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	return user, nil
}

// UpdateRole changes the caller's role during onboarding.
//
// # Business Rules
//   - Accounts may choose candidate or recruiter; admin is never self-assigned.
func (service *Service) UpdateRole(ctx context.Context, userID string, role string) (*User, error) {
	v := &validate.Validator{}
	err := v.
		Required("role", role).
		OneOf("role", role, string(sec.RoleCandidate), string(sec.RoleRecruiter)).
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.UpdateRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("identity_service_update_role_failed: %w", err)
	}

	return service.userRepository.FindByID(ctx, userID)
}

// SetIntent stores the candidate's free-text intent collected during onboarding.
func (service *Service) SetIntent(ctx context.Context, userID string, intentText string) (*User, error) {
	v := &validate.Validator{}
	err := v.
		Required("intent_text", intentText).
		MaxLen("intent_text", intentText, 2000).
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.UpdateIntent(ctx, userID, intentText); err != nil {
		return nil, fmt.Errorf("identity_service_set_intent_failed: %w", err)
	}

	return service.userRepository.FindByID(ctx, userID)
}

// SetConstraints stores the candidate's hard requirements and completes the
// constraint step of onboarding.
func (service *Service) SetConstraints(ctx context.Context, userID string, constraints *Constraints) (*User, error) {
	if constraints == nil {
		return nil, validate.RequiredError("constraints", "are required")
	}

	v := &validate.Validator{}
	err := v.
		Custom("min_salary", constraints.MinSalary < 0, "Must not be negative").
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.UpdateConstraints(ctx, userID, constraints); err != nil {
		return nil, fmt.Errorf("identity_service_set_constraints_failed: %w", err)
	}

	return service.userRepository.FindByID(ctx, userID)
}
