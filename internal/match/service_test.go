// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/job"
	"github.com/saberhq/saber/internal/platform/apperr"
)

// stubMatchRepository is an in-memory MatchRepository for service tests.
type stubMatchRepository struct {
	swipes   []*Swipe
	matches  map[string]*Match
	messages []*Message
	feed     []*FeedCandidate
	signals  []*Signal
}

func newStubMatchRepository() *stubMatchRepository {
	return &stubMatchRepository{matches: map[string]*Match{}}
}

func (s *stubMatchRepository) CreateSwipe(_ context.Context, swipe *Swipe) error {
	s.swipes = append(s.swipes, swipe)
	return nil
}

func (s *stubMatchRepository) HasReciprocalSwipe(_ context.Context, candidateID, jobID string) (bool, error) {
	for _, swipe := range s.swipes {
		if swipe.ActorID == candidateID && swipe.JobID == jobID && swipe.Direction == DirectionRight {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMatchRepository) CreateMatch(_ context.Context, match *Match) (*Match, error) {
	for _, existing := range s.matches {
		if existing.JobID == match.JobID && existing.CandidateID == match.CandidateID {
			return existing, nil
		}
	}
	s.matches[match.ID] = match
	return match, nil
}

func (s *stubMatchRepository) FindMatch(_ context.Context, id string) (*Match, error) {
	match, ok := s.matches[id]
	if !ok {
		return nil, apperr.NotFound("Match")
	}
	return match, nil
}

func (s *stubMatchRepository) ListMatchesByCompany(_ context.Context, companyID string) ([]*Match, error) {
	matches := []*Match{}
	for _, match := range s.matches {
		if match.CompanyID == companyID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (s *stubMatchRepository) ListMatchesByCandidate(_ context.Context, candidateID string) ([]*Match, error) {
	matches := []*Match{}
	for _, match := range s.matches {
		if match.CandidateID == candidateID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (s *stubMatchRepository) CreateMessage(_ context.Context, message *Message) error {
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubMatchRepository) ListMessages(_ context.Context, matchID string) ([]*Message, error) {
	messages := []*Message{}
	for _, message := range s.messages {
		if message.MatchID == matchID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (s *stubMatchRepository) ListFeedCandidates(_ context.Context, _ string, limit int) ([]*FeedCandidate, error) {
	if len(s.feed) > limit {
		return s.feed[:limit], nil
	}
	return s.feed, nil
}

func (s *stubMatchRepository) ListSignals(_ context.Context, companyID string, _ int) ([]*Signal, error) {
	signals := []*Signal{}
	for _, signal := range s.signals {
		if signal.CompanyID == companyID {
			signals = append(signals, signal)
		}
	}
	return signals, nil
}

func (s *stubMatchRepository) CreateSignal(_ context.Context, signal *Signal) error {
	s.signals = append(s.signals, signal)
	return nil
}

// stubAccounts maps user IDs onto profiles.
type stubAccounts struct {
	users map[string]*identity.User
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*identity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// stubJobs maps job IDs onto jobs.
type stubJobs struct {
	jobs map[string]*job.Job
}

func (s *stubJobs) FindByID(_ context.Context, id string) (*job.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("Job")
	}
	return j, nil
}

func newTestService(repo *stubMatchRepository) *Service {
	accounts := &stubAccounts{users: map[string]*identity.User{
		"recruiter-1": {ID: "recruiter-1", CompanyID: "company-1"},
		"cand-1":      {ID: "cand-1"},
		"outsider":    {ID: "outsider", CompanyID: "company-9"},
	}}
	jobs := &stubJobs{jobs: map[string]*job.Job{
		"job-1": {ID: "job-1", CompanyID: "company-1", Active: true},
		"job-9": {ID: "job-9", CompanyID: "company-9", Active: true},
	}}
	return NewService(repo, accounts, jobs)
}

/*
TestService_RightSwipeWithReciprocityCreatesMatch covers the double-opt-in
core:

 1. The candidate right-swiped job-1 earlier.
 2. The recruiter right swipe then creates a match and a "match" signal.
*/
func TestService_RightSwipeWithReciprocityCreatesMatch(t *testing.T) {
	repo := newStubMatchRepository()
	repo.swipes = append(repo.swipes, &Swipe{
		ID: "s-0", ActorID: "cand-1", CandidateID: "cand-1", JobID: "job-1", Direction: DirectionRight,
	})
	service := newTestService(repo)

	result, err := service.RecordSwipe(context.Background(), "recruiter-1", SwipeInput{
		CandidateID: "cand-1",
		JobID:       "job-1",
		Direction:   DirectionRight,
	})

	require.NoError(t, err)
	assert.True(t, result.Matched)
	require.NotNil(t, result.Match)
	assert.Equal(t, "cand-1", result.Match.CandidateID)
	assert.Equal(t, "company-1", result.Match.CompanyID)
	require.Len(t, repo.signals, 1)
	assert.Equal(t, "match", repo.signals[0].Kind)
}

/*
TestService_RightSwipeWithoutReciprocityStaysPending verifies that a lone
recruiter right swipe records interest but creates no match.
*/
func TestService_RightSwipeWithoutReciprocityStaysPending(t *testing.T) {
	repo := newStubMatchRepository()
	service := newTestService(repo)

	result, err := service.RecordSwipe(context.Background(), "recruiter-1", SwipeInput{
		CandidateID: "cand-1",
		JobID:       "job-1",
		Direction:   DirectionRight,
	})

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Nil(t, result.Match)
	assert.Empty(t, repo.matches)
}

/*
TestService_LeftSwipeNeverMatches verifies that a left swipe skips the
reciprocity check even when the candidate already opted in.
*/
func TestService_LeftSwipeNeverMatches(t *testing.T) {
	repo := newStubMatchRepository()
	repo.swipes = append(repo.swipes, &Swipe{
		ID: "s-0", ActorID: "cand-1", CandidateID: "cand-1", JobID: "job-1", Direction: DirectionRight,
	})
	service := newTestService(repo)

	result, err := service.RecordSwipe(context.Background(), "recruiter-1", SwipeInput{
		CandidateID: "cand-1",
		JobID:       "job-1",
		Direction:   DirectionLeft,
	})

	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Empty(t, repo.matches)
}

/*
TestService_SwipeRejectsForeignJob verifies company scoping on the swipe path.
*/
func TestService_SwipeRejectsForeignJob(t *testing.T) {
	service := newTestService(newStubMatchRepository())

	_, err := service.RecordSwipe(context.Background(), "recruiter-1", SwipeInput{
		CandidateID: "cand-1",
		JobID:       "job-9",
		Direction:   DirectionRight,
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestService_FeedRanksBySkillOverlap verifies that skill terms found in the
intent text push a card up the feed while ties keep storage order.
*/
func TestService_FeedRanksBySkillOverlap(t *testing.T) {
	repo := newStubMatchRepository()
	now := time.Now()
	repo.feed = []*FeedCandidate{
		{ID: "c-newest", IntentText: "Looking for frontend roles", JoinedAt: now},
		{ID: "c-go", IntentText: "Go and Postgres backend work", JoinedAt: now.Add(-time.Hour)},
		{ID: "c-both", IntentText: "Go services with Redis caching", JoinedAt: now.Add(-2 * time.Hour)},
	}
	service := newTestService(repo)

	cards, err := service.Feed(context.Background(), "recruiter-1", []string{"go", "redis"}, 10)

	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "c-both", cards[0].ID)
	assert.Equal(t, 2, cards[0].Score)
	assert.Equal(t, "c-go", cards[1].ID)
	assert.Equal(t, "c-newest", cards[2].ID)
}

/*
TestService_FeedNormalizesSkillTerms verifies that skill matching ignores
case and surrounding whitespace and that blank terms never score.
*/
func TestService_FeedNormalizesSkillTerms(t *testing.T) {
	repo := newStubMatchRepository()
	repo.feed = []*FeedCandidate{
		{ID: "c-1", IntentText: "Senior Go engineer", JoinedAt: time.Now()},
	}
	service := newTestService(repo)

	cards, err := service.Feed(context.Background(), "recruiter-1", []string{"  GO ", "", "   "}, 10)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 1, cards[0].Score)
}

/*
TestService_SendMessageAuthorization verifies that only match participants
can post, and that both sides count as participants.
*/
func TestService_SendMessageAuthorization(t *testing.T) {
	repo := newStubMatchRepository()
	repo.matches["m-1"] = &Match{ID: "m-1", JobID: "job-1", CompanyID: "company-1", CandidateID: "cand-1"}
	service := newTestService(repo)

	// ── 1. Outsider is rejected ───────────────────────────────────────────

	_, err := service.SendMessage(context.Background(), "outsider", "m-1", "hello")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// ── 2. Both participants can post ─────────────────────────────────────

	_, err = service.SendMessage(context.Background(), "recruiter-1", "m-1", "Great profile!")
	require.NoError(t, err)

	_, err = service.SendMessage(context.Background(), "cand-1", "m-1", "Thanks, happy to talk.")
	require.NoError(t, err)

	messages, err := service.Matches(context.Background(), "cand-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Len(t, messages[0].Messages, 2)
}
