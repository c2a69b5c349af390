// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package job

import (
	"context"
	"fmt"

	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/validate"
	"github.com/saberhq/saber/pkg/pagination"
	"github.com/saberhq/saber/pkg/pointer"
	"github.com/saberhq/saber/pkg/uuid"
)

// AccountReader is the slice of the identity store the job service needs:
// resolving the caller's account to find its company link.
type AccountReader interface {
	FindByID(ctx context.Context, id string) (*identity.User, error)
}

// Service implements job posting use cases.
//
// Every operation is scoped to the caller's company. A recruiter can only
// touch jobs (and applications of jobs) that belong to their own company.
type Service struct {
	jobRepository JobRepository
	accounts      AccountReader
}

// NewService constructs a new job [Service].
func NewService(jobRepo JobRepository, accounts AccountReader) *Service {
	return &Service{jobRepository: jobRepo, accounts: accounts}
}

// CreateInput holds the data required to publish a job.
type CreateInput struct {
	ProblemStatement string
	Expectations     string
	NonNegotiables   string
	DealBreakers     string
	SkillsRequired   []string
	Constraints      Constraints
}

// Create publishes a new active job under the caller's company.
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Job, error) {
	// ── 1. Company Resolution ─────────────────────────────────────────────

	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, err
	}

	// ── 2. Validation ─────────────────────────────────────────────────────

	v := &validate.Validator{}
	err = v.
		Required("problem_statement", input.ProblemStatement).
		MaxLen("problem_statement", input.ProblemStatement, 4000).
		MaxLen("expectations", input.Expectations, 4000).
		MaxLen("non_negotiables", input.NonNegotiables, 4000).
		MaxLen("deal_breakers", input.DealBreakers, 4000).
		Custom("constraints", input.Constraints.SalaryMin < 0, "Must not be negative").
		Custom("constraints", input.Constraints.SalaryMax != 0 && input.Constraints.SalaryMax < input.Constraints.SalaryMin, "Salary range is inverted").
		Custom("constraints", input.Constraints.ExperienceYears < 0, "Must not be negative").
		Err()
	if err != nil {
		return nil, err
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	job := &Job{
		ID:               uuid.New(),
		CompanyID:        companyID,
		ProblemStatement: input.ProblemStatement,
		Expectations:     input.Expectations,
		NonNegotiables:   input.NonNegotiables,
		DealBreakers:     input.DealBreakers,
		SkillsRequired:   input.SkillsRequired,
		Constraints:      input.Constraints,
		Active:           true,
	}
	if job.SkillsRequired == nil {
		job.SkillsRequired = []string{}
	}

	if err := service.jobRepository.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("job_service_create_failed: %w", err)
	}

	return job, nil
}

// List returns the caller's company jobs, newest first.
func (service *Service) List(ctx context.Context, userID string, params pagination.Params) ([]*Job, pagination.Meta, error) {
	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	jobs, total, err := service.jobRepository.ListByCompany(ctx, companyID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("job_service_list_failed: %w", err)
	}

	return jobs, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateInput holds the optional fields of a job edit. Nil fields keep their
// current value.
type UpdateInput struct {
	ProblemStatement *string
	Expectations     *string
	NonNegotiables   *string
	DealBreakers     *string
	SkillsRequired   []string
	Constraints      *Constraints
	Active           *bool
}

// Update merges the partial input onto the stored job and persists it.
func (service *Service) Update(ctx context.Context, userID, jobID string, input UpdateInput) (*Job, error) {
	job, err := service.ownedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	job.ProblemStatement = pointer.Fallback(input.ProblemStatement, job.ProblemStatement)
	job.Expectations = pointer.Fallback(input.Expectations, job.Expectations)
	job.NonNegotiables = pointer.Fallback(input.NonNegotiables, job.NonNegotiables)
	job.DealBreakers = pointer.Fallback(input.DealBreakers, job.DealBreakers)
	job.Active = pointer.Fallback(input.Active, job.Active)
	if input.SkillsRequired != nil {
		job.SkillsRequired = input.SkillsRequired
	}
	if input.Constraints != nil {
		job.Constraints = *input.Constraints
	}

	v := &validate.Validator{}
	err = v.
		Required("problem_statement", job.ProblemStatement).
		MaxLen("problem_statement", job.ProblemStatement, 4000).
		Custom("constraints", job.Constraints.SalaryMin < 0, "Must not be negative").
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.jobRepository.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("job_service_update_failed: %w", err)
	}

	return job, nil
}

// Delete removes one of the caller's jobs.
func (service *Service) Delete(ctx context.Context, userID, jobID string) error {
	if _, err := service.ownedJob(ctx, userID, jobID); err != nil {
		return err
	}

	if err := service.jobRepository.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("job_service_delete_failed: %w", err)
	}

	return nil
}

// Applications returns a job's review inbox, scoped to the caller's company.
func (service *Service) Applications(ctx context.Context, userID, jobID string) ([]*Application, error) {
	if _, err := service.ownedJob(ctx, userID, jobID); err != nil {
		return nil, err
	}

	applications, err := service.jobRepository.ListApplications(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("job_service_applications_failed: %w", err)
	}

	return applications, nil
}

// UpdateApplicationStatus moves one application to a new review state after
// checking the caller's company owns the underlying job.
func (service *Service) UpdateApplicationStatus(ctx context.Context, userID, applicationID string, status ApplicationStatus) (*Application, error) {
	if !status.Valid() {
		return nil, apperr.ValidationError("Invalid application status", apperr.FieldError{
			Field:   "status",
			Message: "Must be one of: submitted, reviewed, accepted, rejected",
		})
	}

	application, err := service.jobRepository.FindApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if _, err := service.ownedJob(ctx, userID, application.JobID); err != nil {
		return nil, err
	}

	if err := service.jobRepository.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return nil, fmt.Errorf("job_service_update_application_failed: %w", err)
	}

	application.Status = status
	return application, nil
}

// callerCompany resolves the caller's company link.
//
// Returns [apperr.Unprocessable] when the account has not finished company
// onboarding yet, since no posting can exist without an owner company.
func (service *Service) callerCompany(ctx context.Context, userID string) (string, error) {
	user, err := service.accounts.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.HasCompany() {
		return "", apperr.Unprocessable("Account is not linked to a company")
	}
	return user.CompanyID, nil
}

// ownedJob loads a job and verifies it belongs to the caller's company.
func (service *Service) ownedJob(ctx context.Context, userID, jobID string) (*Job, error) {
	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, err
	}

	job, err := service.jobRepository.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, apperr.Forbidden("Job belongs to another company")
	}

	return job, nil
}
