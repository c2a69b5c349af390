// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

/*
Package match implements the double-opt-in matching flow between recruiters
and candidates.

Architecture:

  - Swipe: one directed interest decision (recruiter on a candidate for a
    job, or candidate on a job).
  - Match: created when a recruiter right swipe meets a reciprocal candidate
    right swipe on the same job.
  - Message: chat inside an established match.
  - Feed / Signal: the recruiter-facing discovery surfaces.
*/
package match

import (
	"time"
)

// SwipeDirection is the closed decision enum of a swipe.
type SwipeDirection string

const (
	DirectionLeft  SwipeDirection = "left"
	DirectionRight SwipeDirection = "right"
)

// Valid reports whether the direction is one of the closed enum values.
func (d SwipeDirection) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Swipe records one interest decision.
//
// For recruiter swipes the actor is the recruiter and CandidateID names the
// card. For candidate swipes the actor is the candidate itself.
type Swipe struct {
	ID          string         `json:"id"`
	ActorID     string         `json:"actor_id"`
	CandidateID string         `json:"candidate_id"`
	JobID       string         `json:"job_id"`
	Direction   SwipeDirection `json:"direction"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Match represents mutual interest between a company's job and a candidate.
type Match struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CompanyID   string    `json:"company_id"`
	CandidateID string    `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Snapshot fields joined in for the inbox view.
	CandidateName   string `json:"candidate_name,omitempty"`
	CandidateIntent string `json:"candidate_intent,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`

	Messages []*Message `json:"messages"`
}

// Message is one chat entry inside a match.
type Message struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedCandidate is one ranked card in the recruiter discovery feed.
type FeedCandidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	IntentText string    `json:"intent_text"`
	Score      int       `json:"score"`
	JoinedAt   time.Time `json:"joined_at"`
}

// Signal is one candidate activity event surfaced to recruiters.
type Signal struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"-"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Kind          string    `json:"kind"`
	Payload       string    `json:"payload,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
