// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Package admin exposes platform operator features: the metrics overview
// and AI service key issuance.
package admin

import (
	"time"
)

// Metrics is the platform-wide overview returned to operators.
type Metrics struct {
	TotalSwipes      int       `json:"total_swipes"`
	TotalMatches     int       `json:"total_matches"`
	MatchRate        float64   `json:"match_rate"`
	ActiveJobs       int       `json:"active_jobs"`
	ActiveCandidates int       `json:"active_candidates"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// KeyGrant is the one-time response of an AI service key rotation.
//
// The plaintext key leaves the server exactly once, here. Only its bcrypt
// hash is stored.
type KeyGrant struct {
	Status      string    `json:"status"`
	NewKey      string    `json:"new_key"`
	Message     string    `json:"message"`
	GeneratedAt time.Time `json:"generated_at"`
}
