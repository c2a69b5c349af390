// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: every profile returned by the identity service carries
// exactly one of these values.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can create a company, post jobs, and work the matching inbox
	RoleRecruiter Role = "recruiter"

	// Default role for accounts created via OAuth sign-in
	RoleCandidate Role = "candidate"
)

// Valid reports whether the role is one of the closed enum values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleCandidate:
		return true
	}
	return false
}

// # Role Sets

// RoleSet is the set of roles allowed through a guarded route.
//
// A nil RoleSet means "no role restriction" — any authenticated, onboarded
// account passes.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet from a list of roles.
func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether the role is a member of the set.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}
