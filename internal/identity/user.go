// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

// Package identity defines the account entities and sign-in rules of the Saber platform.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package identity

import (
	"time"

	"github.com/saberhq/saber/internal/platform/sec"
)

// Constraints captures a candidate's hard requirements collected during onboarding.
type Constraints struct {
	MinSalary int  `json:"min_salary"`
	Remote    bool `json:"remote"`
}

// User represents a registered account on the Saber platform.
//
// # Rules
//   - Email is unique; accounts are created exclusively through OAuth sign-in.
//   - Role is one of the closed [sec.Role] enum.
//   - CompanyID is the onboarding master toggle: once set, the account is
//     considered fully onboarded regardless of any other signal.
//   - Companies is the legacy membership list kept for accounts created before
//     CompanyID existed; an empty list on a company-less account means
//     onboarding has not completed.
//   - Onboarding is a server-declared override that forces the account back
//     through the onboarding flow.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	Role        sec.Role     `json:"role"`
	CompanyID   string       `json:"company_id,omitempty"`
	Companies   []string     `json:"companies,omitempty"`
	IntentText  string       `json:"intent_text,omitempty"`
	Onboarding  bool         `json:"onboarding"`
	Constraints *Constraints `json:"constraints,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasCompany reports whether the account is linked to an organization.
func (u *User) HasCompany() bool {
	return u.CompanyID != ""
}
