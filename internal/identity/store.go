// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package identity

import (
	"context"
)

// UserRepository defines the data access contract for platform accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Saber is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID, including its legacy
	// company membership list.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no account is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account to the storage.
	//
	// Returns a wrapped error if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists changes to mutable sign-in fields (Name, PhotoURL)
	// refreshed from the OAuth provider on every login.
	UpdateProfile(ctx context.Context, user *User) error

	// UpdateRole replaces only the account's role.
	UpdateRole(ctx context.Context, userID string, role string) error

	// UpdateIntent replaces only the candidate's free-text intent.
	UpdateIntent(ctx context.Context, userID string, intentText string) error

	// UpdateConstraints replaces the candidate's onboarding constraints and
	// clears the server-declared onboarding flag.
	UpdateConstraints(ctx context.Context, userID string, constraints *Constraints) error

	// SetCompany links the account to an organization. This is the onboarding
	// completion signal for recruiters and admins.
	SetCompany(ctx context.Context, userID string, companyID string) error
}
