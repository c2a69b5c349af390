// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// PostgreSQL implementation of the identity storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new account record into the identity.account table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO identity.account (
			id, email, name, photourl, role, companyid, intenttext, onboarding, constraints, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	constraintsJSON, err := marshalConstraints(user.Constraints)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PhotoURL,
		user.Role,
		user.CompanyID,
		user.IntentText,
		user.Onboarding,
		constraintsJSON,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// A duplicate email trips the unique constraint and surfaces as a conflict.
	return dberr.Wrap(err, "create_account")
}

// FindByID retrieves an account record by its unique ID.
//
// # Returns
//
// Returns [*User] (with the legacy membership list populated), or
// [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, name, photourl, role, COALESCE(companyid, ''), intenttext, onboarding, constraints, createdat, updatedat
		FROM identity.account
		WHERE id = $1`

	user, err := repository.scanUser(ctx, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_account_by_id")
	}

	if err := repository.loadMemberships(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail retrieves an account record by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, name, photourl, role, COALESCE(companyid, ''), intenttext, onboarding, constraints, createdat, updatedat
		FROM identity.account
		WHERE email = $1`

	user, err := repository.scanUser(ctx, query, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_account_by_email")
	}

	if err := repository.loadMemberships(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile persists sign-in fields refreshed from the OAuth provider.
func (repository *PostgresUserRepository) UpdateProfile(ctx context.Context, user *User) error {
	const query = `
		UPDATE identity.account
		SET name = $2, photourl = $3, updatedat = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query, user.ID, user.Name, user.PhotoURL, user.UpdatedAt)
	return dberr.Wrap(err, "update_profile")
}

// UpdateRole replaces only the account's role.
func (repository *PostgresUserRepository) UpdateRole(ctx context.Context, userID string, role string) error {
	const query = `
		UPDATE identity.account
		SET role = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, role, time.Now())
	return dberr.Wrap(err, "update_role")
}

// UpdateIntent replaces only the candidate's free-text intent.
func (repository *PostgresUserRepository) UpdateIntent(ctx context.Context, userID string, intentText string) error {
	const query = `
		UPDATE identity.account
		SET intenttext = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, intentText, time.Now())
	return dberr.Wrap(err, "update_intent")
}

// UpdateConstraints replaces the candidate's constraints and clears the
// server-declared onboarding flag.
func (repository *PostgresUserRepository) UpdateConstraints(ctx context.Context, userID string, constraints *Constraints) error {
	const query = `
		UPDATE identity.account
		SET constraints = $2, onboarding = FALSE, updatedat = $3
		WHERE id = $1`

	constraintsJSON, err := marshalConstraints(constraints)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(ctx, query, userID, constraintsJSON, time.Now())
	return dberr.Wrap(err, "update_constraints")
}

// SetCompany links the account to an organization.
func (repository *PostgresUserRepository) SetCompany(ctx context.Context, userID string, companyID string) error {
	const query = `
		UPDATE identity.account
		SET companyid = $2, onboarding = FALSE, updatedat = $3
		WHERE id = $1`

	// A dangling company ID trips the foreign key and surfaces as unprocessable.
	_, err := repository.pool.Exec(ctx, query, userID, companyID, time.Now())
	return dberr.Wrap(err, "set_company")
}

// scanUser runs a single-row account query and maps the columns.
func (repository *PostgresUserRepository) scanUser(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var constraintsJSON []byte

	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PhotoURL,
		&user.Role,
		&user.CompanyID,
		&user.IntentText,
		&user.Onboarding,
		&constraintsJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(constraintsJSON) > 0 {
		constraints := &Constraints{}
		if err := json.Unmarshal(constraintsJSON, constraints); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_constraints_decode_failed: %w", err)
		}
		user.Constraints = constraints
	}

	return user, nil
}

// loadMemberships populates the legacy company membership list.
func (repository *PostgresUserRepository) loadMemberships(ctx context.Context, user *User) error {
	const query = `
		SELECT companyid
		FROM recruiting.company_member
		WHERE userid = $1
		ORDER BY createdat`

	rows, err := repository.pool.Query(ctx, query, user.ID)
	if err != nil {
		return dberr.Wrap(err, "list_memberships")
	}
	defer rows.Close()

	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			return dberr.Wrap(err, "scan_membership")
		}
		user.Companies = append(user.Companies, companyID)
	}

	return dberr.Wrap(rows.Err(), "membership_rows")
}

// marshalConstraints serializes constraints for the JSONB column.
// A nil value maps to SQL NULL.
func marshalConstraints(constraints *Constraints) ([]byte, error) {
	if constraints == nil {
		return nil, nil
	}
	data, err := json.Marshal(constraints)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_constraints_encode_failed: %w", err)
	}
	return data, nil
}
