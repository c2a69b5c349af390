// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package job

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
	"github.com/saberhq/saber/pkg/pagination"
)

// PostgresJobRepository implements [JobRepository] using pgx.
type PostgresJobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new PostgreSQL implementation of JobRepository.
func NewJobRepository(pool *pgxpool.Pool) *PostgresJobRepository {
	return &PostgresJobRepository{pool: pool}
}

const jobColumns = `
	id, companyid, problemstatement, expectations, nonnegotiables,
	dealbreakers, skillsrequired, constraints, active, createdat, updatedat`

// Create persists a new job posting into the recruiting.job table.
func (repository *PostgresJobRepository) Create(ctx context.Context, job *Job) error {
	const query = `
		INSERT INTO recruiting.job (
			id, companyid, problemstatement, expectations, nonnegotiables,
			dealbreakers, skillsrequired, constraints, active, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	constraints, err := json.Marshal(job.Constraints)
	if err != nil {
		return fmt.Errorf("postgres_job_repo_marshal_constraints_failed: %w", err)
	}

	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	_, err = repository.pool.Exec(ctx, query,
		job.ID,
		job.CompanyID,
		job.ProblemStatement,
		job.Expectations,
		job.NonNegotiables,
		job.DealBreakers,
		job.SkillsRequired,
		constraints,
		job.Active,
		job.CreatedAt,
		job.UpdatedAt,
	)

	// A deleted company trips the foreign key and surfaces as unprocessable.
	return dberr.Wrap(err, "create_job")
}

// FindByID retrieves a job record by its unique ID.
func (repository *PostgresJobRepository) FindByID(ctx context.Context, id string) (*Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM recruiting.job
		WHERE id = $1`

	job, err := scanJob(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Job")
		}
		return nil, dberr.Wrap(err, "find_job_by_id")
	}

	return job, nil
}

// ListByCompany retrieves a company's jobs newest-first with the total count.
func (repository *PostgresJobRepository) ListByCompany(ctx context.Context, companyID string, params pagination.Params) ([]*Job, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM recruiting.job
		WHERE companyid = $1`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, companyID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_jobs")
	}

	query := `
		SELECT ` + jobColumns + `
		FROM recruiting.job
		WHERE companyid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, companyID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_jobs")
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_job")
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "job_rows")
	}

	return jobs, total, nil
}

// Update persists the full job row.
func (repository *PostgresJobRepository) Update(ctx context.Context, job *Job) error {
	const query = `
		UPDATE recruiting.job
		SET problemstatement = $2,
		    expectations = $3,
		    nonnegotiables = $4,
		    dealbreakers = $5,
		    skillsrequired = $6,
		    constraints = $7,
		    active = $8,
		    updatedat = $9
		WHERE id = $1`

	constraints, err := json.Marshal(job.Constraints)
	if err != nil {
		return fmt.Errorf("postgres_job_repo_marshal_constraints_failed: %w", err)
	}

	job.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(ctx, query,
		job.ID,
		job.ProblemStatement,
		job.Expectations,
		job.NonNegotiables,
		job.DealBreakers,
		job.SkillsRequired,
		constraints,
		job.Active,
		job.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "update_job")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Job")
	}

	return nil
}

// Delete removes the job. Applications cascade via the foreign key.
func (repository *PostgresJobRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM recruiting.job WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_job")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Job")
	}

	return nil
}

// ListApplications retrieves a job's applications with candidate snapshots.
func (repository *PostgresJobRepository) ListApplications(ctx context.Context, jobID string) ([]*Application, error) {
	const query = `
		SELECT ap.id, ap.jobid, ap.candidateid, ap.status, ap.createdat, ap.updatedat,
		       COALESCE(a.name, ''), COALESCE(a.email, ''), COALESCE(a.intenttext, '')
		FROM recruiting.application ap
		LEFT JOIN identity.account a ON a.id = ap.candidateid
		WHERE ap.jobid = $1
		ORDER BY ap.createdat DESC`

	rows, err := repository.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_applications")
	}
	defer rows.Close()

	applications := []*Application{}
	for rows.Next() {
		application := &Application{}
		err := rows.Scan(
			&application.ID,
			&application.JobID,
			&application.CandidateID,
			&application.Status,
			&application.CreatedAt,
			&application.UpdatedAt,
			&application.CandidateName,
			&application.CandidateEmail,
			&application.CandidateIntent,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_application")
		}
		applications = append(applications, application)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "application_rows")
	}

	return applications, nil
}

// FindApplication retrieves an application record by its unique ID.
func (repository *PostgresJobRepository) FindApplication(ctx context.Context, id string) (*Application, error) {
	const query = `
		SELECT id, jobid, candidateid, status, createdat, updatedat
		FROM recruiting.application
		WHERE id = $1`

	application := &Application{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&application.ID,
		&application.JobID,
		&application.CandidateID,
		&application.Status,
		&application.CreatedAt,
		&application.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Application")
		}
		return nil, dberr.Wrap(err, "find_application")
	}

	return application, nil
}

// UpdateApplicationStatus moves an application to a new review state.
func (repository *PostgresJobRepository) UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus) error {
	const query = `
		UPDATE recruiting.application
		SET status = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_application_status")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Application")
	}

	return nil
}

// scanJob maps one row onto a Job, decoding the constraints JSONB column.
func scanJob(row pgx.Row) (*Job, error) {
	job := &Job{}
	var constraints []byte

	err := row.Scan(
		&job.ID,
		&job.CompanyID,
		&job.ProblemStatement,
		&job.Expectations,
		&job.NonNegotiables,
		&job.DealBreakers,
		&job.SkillsRequired,
		&constraints,
		&job.Active,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(constraints) > 0 {
		if err := json.Unmarshal(constraints, &job.Constraints); err != nil {
			return nil, fmt.Errorf("postgres_job_repo_unmarshal_constraints_failed: %w", err)
		}
	}
	if job.SkillsRequired == nil {
		job.SkillsRequired = []string{}
	}

	return job, nil
}
