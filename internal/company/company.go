// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Package company manages the organizations recruiters hire for.
//
// Creating a company is the onboarding completion step for recruiters: the
// creator becomes its owner and the account's company link is set.
package company

import (
	"time"
)

// Company represents a hiring organization.
//
// # Rules
//   - Slug is derived from the name and unique.
//   - OwnerID is the account that created the company during onboarding.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Website   string    `json:"website,omitempty"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
