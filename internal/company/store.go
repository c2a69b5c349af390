// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package company

import (
	"context"
)

// CompanyRepository defines the data access contract for companies.
type CompanyRepository interface {
	// Create persists a new company.
	//
	// Returns a wrapped error if the slug unique constraint fails.
	Create(ctx context.Context, company *Company) error

	// FindByID returns the company with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Company, error)

	// FindByMember returns the company the given account belongs to.
	//
	// Returns [apperr.NotFound] if the account has no company.
	FindByMember(ctx context.Context, userID string) (*Company, error)

	// AddMember records a membership row for the account. Memberships back
	// the legacy onboarding-completeness signal and future multi-member
	// companies.
	AddMember(ctx context.Context, companyID, userID string) error
}
