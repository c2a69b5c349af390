// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package company

import (
	"context"
	"fmt"

	"github.com/saberhq/saber/internal/platform/validate"
	"github.com/saberhq/saber/pkg/slug"
	"github.com/saberhq/saber/pkg/uuid"
)

// AccountLinker is the slice of the identity store the company service needs:
// marking the creator's account as belonging to the new company. Setting the
// link is what completes recruiter onboarding.
type AccountLinker interface {
	SetCompany(ctx context.Context, userID string, companyID string) error
}

// Service implements company use cases.
type Service struct {
	companyRepository CompanyRepository
	accounts          AccountLinker
}

// NewService constructs a new company [Service].
func NewService(companyRepo CompanyRepository, accounts AccountLinker) *Service {
	return &Service{companyRepository: companyRepo, accounts: accounts}
}

// CreateInput holds the data required to register a company.
type CreateInput struct {
	Name    string
	Website string
}

// Create registers a new company and links the creator to it.
//
// # Flow
//  1. Validate and slugify the name.
//  2. Persist the company with the creator as owner.
//  3. Record the creator's membership and set the account's company link
//     (the onboarding completion signal).
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Company, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	v := &validate.Validator{}
	err := v.
		Required("name", input.Name).
		MinLen("name", input.Name, 2).
		MaxLen("name", input.Name, 120).
		Custom("website", input.Website != "" && !validURL(input.Website), "Must be a valid http(s) URL").
		Err()
	if err != nil {
		return nil, err
	}

	// ── 2. Entity Construction ────────────────────────────────────────────

	company := &Company{
		ID:      uuid.New(),
		Name:    input.Name,
		Slug:    slug.From(input.Name),
		Website: input.Website,
		OwnerID: userID,
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.companyRepository.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("company_service_create_failed: %w", err)
	}

	if err := service.companyRepository.AddMember(ctx, company.ID, userID); err != nil {
		return nil, fmt.Errorf("company_service_add_member_failed: %w", err)
	}

	// ── 4. Onboarding Completion ──────────────────────────────────────────

	if err := service.accounts.SetCompany(ctx, userID, company.ID); err != nil {
		return nil, fmt.Errorf("company_service_link_account_failed: %w", err)
	}

	return company, nil
}

// Mine returns the caller's company.
func (service *Service) Mine(ctx context.Context, userID string) (*Company, error) {
	return service.companyRepository.FindByMember(ctx, userID)
}

// validURL runs the website through the shared URL rule.
func validURL(value string) bool {
	v := &validate.Validator{}
	return !v.URL("website", value).HasErrors()
}
