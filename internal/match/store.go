// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package match

import (
	"context"
)

// MatchRepository defines the data access contract for swipes, matches,
// messages, the discovery feed and candidate signals.
type MatchRepository interface {
	// CreateSwipe persists one interest decision. Re-swiping the same card
	// updates the stored direction instead of failing.
	CreateSwipe(ctx context.Context, swipe *Swipe) error

	// HasReciprocalSwipe reports whether the candidate right-swiped the job.
	HasReciprocalSwipe(ctx context.Context, candidateID, jobID string) (bool, error)

	// CreateMatch persists a match. Creating the same job/candidate pair
	// twice is a no-op that returns the existing match.
	CreateMatch(ctx context.Context, match *Match) (*Match, error)

	// FindMatch returns the match with the given ID, without snapshots.
	//
	// Returns [apperr.NotFound] if it does not exist.
	FindMatch(ctx context.Context, id string) (*Match, error)

	// ListMatchesByCompany returns a company's matches newest-first with
	// candidate and job snapshots, without messages.
	ListMatchesByCompany(ctx context.Context, companyID string) ([]*Match, error)

	// ListMatchesByCandidate returns a candidate's matches newest-first with
	// job snapshots, without messages.
	ListMatchesByCandidate(ctx context.Context, candidateID string) ([]*Match, error)

	// CreateMessage persists a chat message.
	CreateMessage(ctx context.Context, message *Message) error

	// ListMessages returns a match's messages oldest-first.
	ListMessages(ctx context.Context, matchID string) ([]*Message, error)

	// ListFeedCandidates returns up to limit onboarded candidates the
	// recruiter's company has not swiped yet, newest-first. Ranking happens
	// in the service layer.
	ListFeedCandidates(ctx context.Context, companyID string, limit int) ([]*FeedCandidate, error)

	// ListSignals returns recent candidate activity for the company.
	ListSignals(ctx context.Context, companyID string, limit int) ([]*Signal, error)

	// CreateSignal records one candidate activity event.
	CreateSignal(ctx context.Context, signal *Signal) error
}
