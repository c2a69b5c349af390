// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package match

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/job"
	"github.com/saberhq/saber/internal/platform/apperr"
	"github.com/saberhq/saber/internal/platform/validate"
	"github.com/saberhq/saber/pkg/slice"
	"github.com/saberhq/saber/pkg/uuid"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 50

	// feedOverfetch controls how many candidates are loaded before ranking,
	// so skill scoring has material to reorder.
	feedOverfetch = 200

	defaultSignalLimit = 50
)

// AccountReader is the slice of the identity store the match service needs.
type AccountReader interface {
	FindByID(ctx context.Context, id string) (*identity.User, error)
}

// JobReader resolves jobs for swipe ownership checks.
type JobReader interface {
	FindByID(ctx context.Context, id string) (*job.Job, error)
}

// Service implements the matching use cases.
type Service struct {
	matchRepository MatchRepository
	accounts        AccountReader
	jobs            JobReader
}

// NewService constructs a new match [Service].
func NewService(matchRepo MatchRepository, accounts AccountReader, jobs JobReader) *Service {
	return &Service{matchRepository: matchRepo, accounts: accounts, jobs: jobs}
}

// Matches returns the caller's match inbox with messages attached.
//
// Recruiters see their company's matches; candidates see their own.
func (service *Service) Matches(ctx context.Context, userID string) ([]*Match, error) {
	user, err := service.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matches []*Match
	if user.HasCompany() {
		matches, err = service.matchRepository.ListMatchesByCompany(ctx, user.CompanyID)
	} else {
		matches, err = service.matchRepository.ListMatchesByCandidate(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("match_service_list_failed: %w", err)
	}

	for _, match := range matches {
		messages, err := service.matchRepository.ListMessages(ctx, match.ID)
		if err != nil {
			return nil, fmt.Errorf("match_service_messages_failed: %w", err)
		}
		match.Messages = messages
	}

	return matches, nil
}

// SendMessage posts a chat message into one of the caller's matches.
func (service *Service) SendMessage(ctx context.Context, userID, matchID, content string) (*Message, error) {
	v := &validate.Validator{}
	err := v.
		Required("match_id", matchID).
		Required("content", content).
		MaxLen("content", content, 2000).
		Err()
	if err != nil {
		return nil, err
	}

	match, err := service.matchRepository.FindMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeParticipant(ctx, userID, match); err != nil {
		return nil, err
	}

	message := &Message{
		ID:       uuid.New(),
		MatchID:  matchID,
		SenderID: userID,
		Content:  content,
	}
	if err := service.matchRepository.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("match_service_send_message_failed: %w", err)
	}

	return message, nil
}

// Feed returns ranked candidate cards for the recruiter's company.
//
// # Ranking
//
// Each card scores one point per requested skill found in the candidate's
// intent text. Ties keep the newest-first ordering from storage.
func (service *Service) Feed(ctx context.Context, userID string, skills []string, limit int) ([]*FeedCandidate, error) {
	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	cards, err := service.matchRepository.ListFeedCandidates(ctx, companyID, feedOverfetch)
	if err != nil {
		return nil, fmt.Errorf("match_service_feed_failed: %w", err)
	}

	terms := slice.Filter(
		slice.Map(skills, func(skill string) string {
			return strings.ToLower(strings.TrimSpace(skill))
		}),
		func(term string) bool { return term != "" },
	)
	for _, card := range cards {
		card.Score = skillScore(card.IntentText, terms)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Score > cards[j].Score
	})

	if len(cards) > limit {
		cards = cards[:limit]
	}

	return cards, nil
}

// SwipeInput holds one recruiter swipe decision.
type SwipeInput struct {
	CandidateID string
	JobID       string
	Direction   SwipeDirection
}

// SwipeResult reports whether the swipe completed a match.
type SwipeResult struct {
	Swipe   *Swipe `json:"swipe"`
	Matched bool   `json:"matched"`
	Match   *Match `json:"match,omitempty"`
}

// RecordSwipe stores a recruiter swipe and creates a match when the candidate
// already right-swiped the same job.
//
// # Flow
//  1. Validate the decision and resolve the caller's company.
//  2. Verify the job belongs to that company.
//  3. Persist the swipe.
//  4. On a right swipe, check for the reciprocal candidate swipe and create
//     the match plus a "match" signal.
func (service *Service) RecordSwipe(ctx context.Context, userID string, input SwipeInput) (*SwipeResult, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	v := &validate.Validator{}
	err := v.
		Required("candidate_id", input.CandidateID).
		Required("job_id", input.JobID).
		Custom("direction", !input.Direction.Valid(), "Must be left or right").
		Err()
	if err != nil {
		return nil, err
	}

	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, err
	}

	// ── 2. Ownership ──────────────────────────────────────────────────────

	swipedJob, err := service.jobs.FindByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if swipedJob.CompanyID != companyID {
		return nil, apperr.Forbidden("Job belongs to another company")
	}

	// ── 3. Persist the swipe ──────────────────────────────────────────────

	swipe := &Swipe{
		ID:          uuid.New(),
		ActorID:     userID,
		CandidateID: input.CandidateID,
		JobID:       input.JobID,
		Direction:   input.Direction,
	}
	if err := service.matchRepository.CreateSwipe(ctx, swipe); err != nil {
		return nil, fmt.Errorf("match_service_swipe_failed: %w", err)
	}

	result := &SwipeResult{Swipe: swipe}
	if input.Direction != DirectionRight {
		return result, nil
	}

	// ── 4. Reciprocity Check ──────────────────────────────────────────────

	reciprocal, err := service.matchRepository.HasReciprocalSwipe(ctx, input.CandidateID, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("match_service_reciprocal_check_failed: %w", err)
	}
	if !reciprocal {
		return result, nil
	}

	match, err := service.matchRepository.CreateMatch(ctx, &Match{
		ID:          uuid.New(),
		JobID:       input.JobID,
		CompanyID:   companyID,
		CandidateID: input.CandidateID,
	})
	if err != nil {
		return nil, fmt.Errorf("match_service_create_match_failed: %w", err)
	}

	if err := service.matchRepository.CreateSignal(ctx, &Signal{
		ID:          uuid.New(),
		CompanyID:   companyID,
		CandidateID: input.CandidateID,
		Kind:        "match",
		Payload:     input.JobID,
	}); err != nil {
		return nil, fmt.Errorf("match_service_match_signal_failed: %w", err)
	}

	result.Matched = true
	result.Match = match
	return result, nil
}

// Signals returns recent candidate activity for the caller's company.
func (service *Service) Signals(ctx context.Context, userID string, limit int) ([]*Signal, error) {
	companyID, err := service.callerCompany(ctx, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultSignalLimit
	}

	signals, err := service.matchRepository.ListSignals(ctx, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("match_service_signals_failed: %w", err)
	}

	return signals, nil
}

// callerCompany resolves the caller's company link.
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

// authorizeParticipant ensures the caller sits on one side of the match.
func (service *Service) authorizeParticipant(ctx context.Context, userID string, match *Match) error {
	if userID == match.CandidateID {
		return nil
	}

	user, err := service.accounts.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasCompany() && user.CompanyID == match.CompanyID {
		return nil
	}

	return apperr.Forbidden("Not a participant of this match")
}

// skillScore counts how many normalized skill terms appear in the intent text.
func skillScore(intentText string, terms []string) int {
	haystack := strings.ToLower(intentText)
	return slice.Reduce(terms, 0, func(score int, term string) int {
		if strings.Contains(haystack, term) {
			return score + 1
		}
		return score
	})
}
