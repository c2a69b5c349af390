// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package gate

import (
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/sec"
)

// GuardKind selects which evaluator protects a page route.
type GuardKind int

const (
	// GuardPublic pages render for everyone (auth callback, access denied).
	GuardPublic GuardKind = iota
	// GuardGuest pages are reserved for anonymous visitors.
	GuardGuest
	// GuardProtected pages require an authenticated, onboarded caller.
	GuardProtected
)

// Route binds one page path to its guard and, for protected pages, the set of
// roles admitted through it. A nil role set admits every onboarded role.
type Route struct {
	Path  string
	Guard GuardKind
	Roles sec.RoleSet
}

// Table returns the declarative page-route table consumed by the web tier.
//
// Keeping authorization as data — one row per path, one generic evaluator —
// makes the whole decision table exhaustively testable.
func Table() []Route {
	recruiterOrAdmin := sec.Roles(sec.RoleRecruiter, sec.RoleAdmin)
	adminOnly := sec.Roles(sec.RoleAdmin)

	return []Route{
		{Path: constants.PathLanding, Guard: GuardGuest},
		{Path: constants.PathLogin, Guard: GuardGuest},
		{Path: constants.PathAuthCallback, Guard: GuardPublic},
		{Path: constants.PathUnauthorized, Guard: GuardPublic},

		// Onboarding admits any authenticated role; the evaluator's
		// transition rules decide who actually stays on it.
		{Path: constants.PathOnboarding, Guard: GuardProtected},

		{Path: constants.PathDashboard, Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/company", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/jobs", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/jobs/new", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/jobs/edit/{id}", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/applications", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/matches", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/feed", Guard: GuardProtected, Roles: recruiterOrAdmin},
		{Path: "/signals", Guard: GuardProtected, Roles: recruiterOrAdmin},

		{Path: "/admin/settings", Guard: GuardProtected, Roles: adminOnly},
	}
}
