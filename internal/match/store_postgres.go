// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package match

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/dberr"
)

// PostgresMatchRepository implements [MatchRepository] using pgx.
type PostgresMatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new PostgreSQL implementation of MatchRepository.
func NewMatchRepository(pool *pgxpool.Pool) *PostgresMatchRepository {
	return &PostgresMatchRepository{pool: pool}
}

// CreateSwipe persists one interest decision into the recruiting.swipe table.
// The (actorid, candidateid, jobid) pair is unique; re-swiping updates the
// stored direction.
func (repository *PostgresMatchRepository) CreateSwipe(ctx context.Context, swipe *Swipe) error {
	const query = `
		INSERT INTO recruiting.swipe (id, actorid, candidateid, jobid, direction, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (actorid, candidateid, jobid)
		DO UPDATE SET direction = EXCLUDED.direction, createdat = EXCLUDED.createdat`

	if swipe.CreatedAt.IsZero() {
		swipe.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		swipe.ID,
		swipe.ActorID,
		swipe.CandidateID,
		swipe.JobID,
		swipe.Direction,
		swipe.CreatedAt,
	)
	return dberr.Wrap(err, "create_swipe")
}

// HasReciprocalSwipe reports whether the candidate right-swiped the job.
func (repository *PostgresMatchRepository) HasReciprocalSwipe(ctx context.Context, candidateID, jobID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM recruiting.swipe
			WHERE actorid = $1 AND candidateid = $1 AND jobid = $2 AND direction = 'right'
		)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, candidateID, jobID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "reciprocal_check")
	}

	return exists, nil
}

// CreateMatch persists a match, treating the (jobid, candidateid) pair as
// idempotent: the existing row wins and is returned.
func (repository *PostgresMatchRepository) CreateMatch(ctx context.Context, match *Match) (*Match, error) {
	const query = `
		INSERT INTO recruiting.match (id, jobid, companyid, candidateid, createdat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jobid, candidateid) DO UPDATE SET jobid = EXCLUDED.jobid
		RETURNING id, jobid, companyid, candidateid, createdat`

	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}

	stored := &Match{}
	err := repository.pool.QueryRow(ctx, query,
		match.ID,
		match.JobID,
		match.CompanyID,
		match.CandidateID,
		match.CreatedAt,
	).Scan(
		&stored.ID,
		&stored.JobID,
		&stored.CompanyID,
		&stored.CandidateID,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "create_match")
	}

	return stored, nil
}

// FindMatch retrieves a match record by its unique ID.
func (repository *PostgresMatchRepository) FindMatch(ctx context.Context, id string) (*Match, error) {
	const query = `
		SELECT id, jobid, companyid, candidateid, createdat
		FROM recruiting.match
		WHERE id = $1`

	match := &Match{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&match.ID,
		&match.JobID,
		&match.CompanyID,
		&match.CandidateID,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Match")
		}
		return nil, dberr.Wrap(err, "find_match")
	}

	return match, nil
}

const matchSnapshotQuery = `
	SELECT m.id, m.jobid, m.companyid, m.candidateid, m.createdat,
	       COALESCE(a.name, ''), COALESCE(a.intenttext, ''),
	       COALESCE(j.problemstatement, '')
	FROM recruiting.match m
	LEFT JOIN identity.account a ON a.id = m.candidateid
	LEFT JOIN recruiting.job j ON j.id = m.jobid`

// ListMatchesByCompany retrieves a company's matches with snapshots.
func (repository *PostgresMatchRepository) ListMatchesByCompany(ctx context.Context, companyID string) ([]*Match, error) {
	query := matchSnapshotQuery + `
		WHERE m.companyid = $1
		ORDER BY m.createdat DESC`

	return repository.listMatches(ctx, query, companyID)
}

// ListMatchesByCandidate retrieves a candidate's matches with snapshots.
func (repository *PostgresMatchRepository) ListMatchesByCandidate(ctx context.Context, candidateID string) ([]*Match, error) {
	query := matchSnapshotQuery + `
		WHERE m.candidateid = $1
		ORDER BY m.createdat DESC`

	return repository.listMatches(ctx, query, candidateID)
}

// listMatches runs a snapshot query and scans the result rows.
func (repository *PostgresMatchRepository) listMatches(ctx context.Context, query string, arg any) ([]*Match, error) {
	rows, err := repository.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, dberr.Wrap(err, "list_matches")
	}
	defer rows.Close()

	matches := []*Match{}
	for rows.Next() {
		match := &Match{Messages: []*Message{}}
		err := rows.Scan(
			&match.ID,
			&match.JobID,
			&match.CompanyID,
			&match.CandidateID,
			&match.CreatedAt,
			&match.CandidateName,
			&match.CandidateIntent,
			&match.JobTitle,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_match")
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "match_rows")
	}

	return matches, nil
}

// CreateMessage persists a chat message into the recruiting.match_message table.
func (repository *PostgresMatchRepository) CreateMessage(ctx context.Context, message *Message) error {
	const query = `
		INSERT INTO recruiting.match_message (id, matchid, senderid, content, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		message.ID,
		message.MatchID,
		message.SenderID,
		message.Content,
		message.CreatedAt,
	)
	return dberr.Wrap(err, "create_message")
}

// ListMessages retrieves a match's messages oldest-first.
func (repository *PostgresMatchRepository) ListMessages(ctx context.Context, matchID string) ([]*Message, error) {
	const query = `
		SELECT id, matchid, senderid, content, createdat
		FROM recruiting.match_message
		WHERE matchid = $1
		ORDER BY createdat ASC`

	rows, err := repository.pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_messages")
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		message := &Message{}
		err := rows.Scan(
			&message.ID,
			&message.MatchID,
			&message.SenderID,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_message")
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "message_rows")
	}

	return messages, nil
}

// ListFeedCandidates retrieves onboarded candidate accounts the company has
// not interacted with yet, newest-first.
func (repository *PostgresMatchRepository) ListFeedCandidates(ctx context.Context, companyID string, limit int) ([]*FeedCandidate, error) {
	const query = `
		SELECT a.id, COALESCE(a.name, ''), COALESCE(a.photourl, ''),
		       COALESCE(a.intenttext, ''), a.createdat
		FROM identity.account a
		WHERE a.role = 'candidate'
		  AND a.onboarding = FALSE
		  AND a.intenttext <> ''
		  AND NOT EXISTS (
			SELECT 1
			FROM recruiting.swipe s
			JOIN recruiting.job j ON j.id = s.jobid
			WHERE s.candidateid = a.id
			  AND s.actorid <> a.id
			  AND j.companyid = $1
		  )
		ORDER BY a.createdat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_feed")
	}
	defer rows.Close()

	cards := []*FeedCandidate{}
	for rows.Next() {
		card := &FeedCandidate{}
		err := rows.Scan(
			&card.ID,
			&card.Name,
			&card.PhotoURL,
			&card.IntentText,
			&card.JoinedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_feed")
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "feed_rows")
	}

	return cards, nil
}

// ListSignals retrieves recent candidate activity for the company.
func (repository *PostgresMatchRepository) ListSignals(ctx context.Context, companyID string, limit int) ([]*Signal, error) {
	const query = `
		SELECT s.id, s.companyid, s.candidateid, COALESCE(a.name, ''),
		       s.kind, s.payload, s.createdat
		FROM recruiting.candidate_signal s
		LEFT JOIN identity.account a ON a.id = s.candidateid
		WHERE s.companyid = $1
		ORDER BY s.createdat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_signals")
	}
	defer rows.Close()

	signals := []*Signal{}
	for rows.Next() {
		signal := &Signal{}
		err := rows.Scan(
			&signal.ID,
			&signal.CompanyID,
			&signal.CandidateID,
			&signal.CandidateName,
			&signal.Kind,
			&signal.Payload,
			&signal.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_signal")
		}
		signals = append(signals, signal)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "signal_rows")
	}

	return signals, nil
}

// CreateSignal records one candidate activity event.
func (repository *PostgresMatchRepository) CreateSignal(ctx context.Context, signal *Signal) error {
	const query = `
		INSERT INTO recruiting.candidate_signal (id, companyid, candidateid, kind, payload, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		signal.ID,
		signal.CompanyID,
		signal.CandidateID,
		signal.Kind,
		signal.Payload,
		signal.CreatedAt,
	)
	return dberr.Wrap(err, "create_signal")
}
