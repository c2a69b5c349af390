// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Package job manages job postings and their application inbox.
package job

import (
	"time"
)

// ApplicationStatus is the closed review-state enum of an application.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
)

// Valid reports whether the status is one of the closed enum values.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Constraints captures the hard requirements of a posting.
type Constraints struct {
	SalaryMin       int    `json:"salary_min"`
	SalaryMax       int    `json:"salary_max"`
	ExperienceYears int    `json:"experience_years"`
	Location        string `json:"location,omitempty"`
	RemoteOnly      bool   `json:"remote_only"`
}

// Job represents one posting owned by a company.
//
// # Rules
//   - Every job belongs to exactly one company.
//   - Only active jobs appear in the candidate feed.
type Job struct {
	ID               string      `json:"id"`
	CompanyID        string      `json:"company_id"`
	ProblemStatement string      `json:"problem_statement"`
	Expectations     string      `json:"expectations,omitempty"`
	NonNegotiables   string      `json:"non_negotiables,omitempty"`
	DealBreakers     string      `json:"deal_breakers,omitempty"`
	SkillsRequired   []string    `json:"skills_required"`
	Constraints      Constraints `json:"constraints"`
	Active           bool        `json:"active"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Application represents one candidate's application to a job.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id"`
	CandidateID string            `json:"candidate_id"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Candidate snapshot joined in for the review inbox.
	CandidateName   string `json:"candidate_name,omitempty"`
	CandidateEmail  string `json:"candidate_email,omitempty"`
	CandidateIntent string `json:"candidate_intent,omitempty"`
}
