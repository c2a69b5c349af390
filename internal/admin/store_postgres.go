// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package admin

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saberhq/saber/internal/platform/dberr"
)

// MetricsRepository aggregates platform counters.
type MetricsRepository interface {
	// Counters returns (swipes, matches, active jobs, active candidates).
	Counters(ctx context.Context) (int, int, int, int, error)
}

// PostgresMetricsRepository implements [MetricsRepository] using pgx.
type PostgresMetricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a new PostgreSQL implementation of MetricsRepository.
func NewMetricsRepository(pool *pgxpool.Pool) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{pool: pool}
}

// Counters aggregates the overview numbers in a single round trip.
func (repository *PostgresMetricsRepository) Counters(ctx context.Context) (int, int, int, int, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM recruiting.swipe),
			(SELECT COUNT(*) FROM recruiting.match),
			(SELECT COUNT(*) FROM recruiting.job WHERE active = TRUE),
			(SELECT COUNT(*) FROM identity.account WHERE role = 'candidate' AND onboarding = FALSE)`

	var swipes, matches, activeJobs, activeCandidates int
	err := repository.pool.QueryRow(ctx, query).Scan(&swipes, &matches, &activeJobs, &activeCandidates)
	if err != nil {
		return 0, 0, 0, 0, dberr.Wrap(err, "overview_counters")
	}

	return swipes, matches, activeJobs, activeCandidates, nil
}
