// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package job

import (
	"context"

	"github.com/saberhq/saber/pkg/pagination"
)

// JobRepository defines the data access contract for job postings and their
// applications.
type JobRepository interface {
	// Create persists a new job posting.
	Create(ctx context.Context, job *Job) error

	// FindByID returns the job with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindByID(ctx context.Context, id string) (*Job, error)

	// ListByCompany returns the company's jobs newest-first, plus the total
	// count for pagination.
	ListByCompany(ctx context.Context, companyID string, params pagination.Params) ([]*Job, int, error)

	// Update persists the full job row. Callers merge partial input first.
	Update(ctx context.Context, job *Job) error

	// Delete removes the job and cascades to its applications.
	Delete(ctx context.Context, id string) error

	// ListApplications returns a job's applications newest-first with the
	// candidate snapshot joined in.
	ListApplications(ctx context.Context, jobID string) ([]*Application, error)

	// FindApplication returns the application with the given ID.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindApplication(ctx context.Context, id string) (*Application, error)

	// UpdateApplicationStatus moves an application to a new review state.
	UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus) error
}
