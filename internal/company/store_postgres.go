// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package company

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/dberr"
)

// PostgresCompanyRepository implements [CompanyRepository] using pgx.
type PostgresCompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new PostgreSQL implementation of CompanyRepository.
func NewCompanyRepository(pool *pgxpool.Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{pool: pool}
}

// Create persists a new company record into the recruiting.company table.
func (repository *PostgresCompanyRepository) Create(ctx context.Context, company *Company) error {
	const query = `
		INSERT INTO recruiting.company (
			id, name, slug, website, ownerid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = now
	}
	company.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		company.ID,
		company.Name,
		company.Slug,
		company.Website,
		company.OwnerID,
		company.CreatedAt,
		company.UpdatedAt,
	)

	// A duplicate slug trips the unique constraint and surfaces as a conflict.
	return dberr.Wrap(err, "create_company")
}

// FindByID retrieves a company record by its unique ID.
func (repository *PostgresCompanyRepository) FindByID(ctx context.Context, id string) (*Company, error) {
	const query = `
		SELECT id, name, slug, website, ownerid, createdat, updatedat
		FROM recruiting.company
		WHERE id = $1`

	company := &Company{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Website,
		&company.OwnerID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Company")
		}
		return nil, dberr.Wrap(err, "find_company_by_id")
	}

	return company, nil
}

// FindByMember retrieves the company the account belongs to, preferring the
// direct company link and falling back to the legacy membership table.
func (repository *PostgresCompanyRepository) FindByMember(ctx context.Context, userID string) (*Company, error) {
	const query = `
		SELECT c.id, c.name, c.slug, c.website, c.ownerid, c.createdat, c.updatedat
		FROM recruiting.company c
		LEFT JOIN identity.account a ON a.companyid = c.id AND a.id = $1
		LEFT JOIN recruiting.company_member m ON m.companyid = c.id AND m.userid = $1
		WHERE a.id IS NOT NULL OR m.userid IS NOT NULL
		ORDER BY (a.id IS NOT NULL) DESC, c.createdat
		LIMIT 1`

	company := &Company{}
	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Website,
		&company.OwnerID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Company")
		}
		return nil, dberr.Wrap(err, "find_company_by_member")
	}

	return company, nil
}

// AddMember records a membership row for the account.
func (repository *PostgresCompanyRepository) AddMember(ctx context.Context, companyID, userID string) error {
	const query = `
		INSERT INTO recruiting.company_member (companyid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (companyid, userid) DO NOTHING`

	_, err := repository.pool.Exec(ctx, query, companyID, userID, time.Now())
	return dberr.Wrap(err, "add_company_member")
}
