// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	byID map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: map[string]*User{}}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdateProfile(_ context.Context, user *User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdateRole(_ context.Context, userID, role string) error {
	f.byID[userID].Role = sec.Role(role)
	return nil
}

func (f *fakeUserRepository) UpdateIntent(_ context.Context, userID, intentText string) error {
	f.byID[userID].IntentText = intentText
	return nil
}

func (f *fakeUserRepository) UpdateConstraints(_ context.Context, userID string, constraints *Constraints) error {
	f.byID[userID].Constraints = constraints
	f.byID[userID].Onboarding = false
	return nil
}

func (f *fakeUserRepository) SetCompany(_ context.Context, userID, companyID string) error {
	f.byID[userID].CompanyID = companyID
	f.byID[userID].Onboarding = false
	return nil
}

// fakeProvider returns a canned external identity.
type fakeProvider struct {
	identity *ExternalIdentity
	err      error
}

func (f *fakeProvider) Exchange(_ context.Context, _, _ string) (*ExternalIdentity, error) {
	return f.identity, f.err
}

// fakeTokens issues predictable tokens and verifies by table lookup.
type fakeTokens struct {
	claims map[string]*sec.AuthClaims
}

func (f *fakeTokens) GenerateAccessToken(userID, email, role string, _ time.Duration) (string, error) {
	token := "token-" + userID
	f.claims[token] = &sec.AuthClaims{UserID: userID, Email: email, Role: role}
	return token, nil
}

func (f *fakeTokens) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	claims, ok := f.claims[tokenStr]
	if !ok {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

func newTestService(repo *fakeUserRepository, provider Provider, adminEmail string) (*Service, *fakeTokens) {
	tokens := &fakeTokens{claims: map[string]*sec.AuthClaims{}}
	registry := &ProviderRegistry{providers: map[string]Provider{ProviderGoogle: provider}}
	return NewService(repo, registry, tokens, tokens, adminEmail), tokens
}

var validInput = OAuthSignInInput{
	Provider:    ProviderGoogle,
	Code:        "auth-code",
	RedirectURI: "https://app.saber.app/auth/callback",
}

/*
TestService_FirstSignInCreatesCandidate verifies the upsert path for a brand
new account: candidate role, onboarding pending, token issued.
*/
func TestService_FirstSignInCreatesCandidate(t *testing.T) {
	repo := newFakeUserRepository()
	service, _ := newTestService(repo, &fakeProvider{identity: &ExternalIdentity{
		Subject: "g-1", Email: "ana@example.com", Name: "Ana", PhotoURL: "https://p/ana.png",
	}}, "")

	result, err := service.OAuthSignIn(context.Background(), validInput)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, sec.RoleCandidate, result.User.Role)
	assert.True(t, result.User.Onboarding)
	assert.Len(t, repo.byID, 1)
}

/*
TestService_ReturningSignInRefreshesProfile verifies that a returning account
keeps its role and company link but picks up the provider's current
name/photo.
*/
func TestService_ReturningSignInRefreshesProfile(t *testing.T) {
	repo := newFakeUserRepository()
	repo.byID["u-1"] = &User{
		ID: "u-1", Email: "ana@example.com", Name: "Old Name",
		Role: sec.RoleRecruiter, CompanyID: "company-1",
	}
	service, _ := newTestService(repo, &fakeProvider{identity: &ExternalIdentity{
		Subject: "g-1", Email: "ana@example.com", Name: "Ana Ruiz", PhotoURL: "https://p/new.png",
	}}, "")

	result, err := service.OAuthSignIn(context.Background(), validInput)

	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", result.User.Name)
	assert.Equal(t, sec.RoleRecruiter, result.User.Role)
	assert.Equal(t, "company-1", result.User.CompanyID)
}

/*
TestService_AdminEmailOverride verifies the operator override: the configured
email is promoted to admin on sign-in.
*/
func TestService_AdminEmailOverride(t *testing.T) {
	repo := newFakeUserRepository()
	service, _ := newTestService(repo, &fakeProvider{identity: &ExternalIdentity{
		Subject: "g-9", Email: "ops@saber.app", Name: "Ops",
	}}, "ops@saber.app")

	result, err := service.OAuthSignIn(context.Background(), validInput)

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, result.User.Role)
}

/*
TestService_ResolveProfile verifies that any token failure maps to 401 and a
valid token resolves to the stored account.
*/
func TestService_ResolveProfile(t *testing.T) {
	repo := newFakeUserRepository()
	service, tokens := newTestService(repo, &fakeProvider{identity: &ExternalIdentity{
		Subject: "g-1", Email: "ana@example.com", Name: "Ana",
	}}, "")

	result, err := service.OAuthSignIn(context.Background(), validInput)
	require.NoError(t, err)

	// ── 1. Valid token resolves ───────────────────────────────────────────

	user, err := service.ResolveProfile(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	// ── 2. Garbage token is 401 ───────────────────────────────────────────

	_, err = service.ResolveProfile(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// ── 3. Token for a deleted account is 401 ─────────────────────────────

	tokens.claims["orphan"] = &sec.AuthClaims{UserID: "gone"}
	_, err = service.ResolveProfile(context.Background(), "orphan")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_UpdateRoleNeverSelfAssignsAdmin verifies the onboarding role
picker only accepts candidate and recruiter.
*/
func TestService_UpdateRoleNeverSelfAssignsAdmin(t *testing.T) {
	repo := newFakeUserRepository()
	repo.byID["u-1"] = &User{ID: "u-1", Email: "ana@example.com", Role: sec.RoleCandidate}
	service, _ := newTestService(repo, &fakeProvider{}, "")

	_, err := service.UpdateRole(context.Background(), "u-1", "admin")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	user, err := service.UpdateRole(context.Background(), "u-1", "recruiter")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleRecruiter, user.Role)
}
