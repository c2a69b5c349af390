// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

/*
Package gate decides, for every page navigation, whether the caller may see
the requested page.

It is a pure decision package: the evaluators read a session snapshot and the
target path and yield exactly one of Render, Loading, or Redirect. They never
touch the network, storage, or the session itself — the web tier maps the
decision onto an HTTP response (shell, placeholder, or 303).

Architecture:

  - Decision: the closed outcome type.
  - EvaluateProtected / EvaluateGuest: the two guard predicates.
  - OnboardingRequired: the single pure onboarding-completeness predicate.
  - Table: the declarative path → guard mapping consumed by the web tier.

The evaluators are recomputed on every navigation and carry no memory of
prior decisions; the only state they see is the session snapshot.
*/
package gate

import (
	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/session"
)

// Kind enumerates the possible guard outcomes.
type Kind int

const (
	// KindRender admits the caller to the requested page.
	KindRender Kind = iota
	// KindLoading shows a placeholder while profile resolution is in flight.
	KindLoading
	// KindRedirect sends the caller to Decision.Target instead.
	KindRedirect
)

// Decision is the outcome of evaluating a guard for one navigation.
type Decision struct {
	Kind   Kind
	Target string
}

// Render admits the caller.
func Render() Decision { return Decision{Kind: KindRender} }

// Loading shows the resolution placeholder.
func Loading() Decision { return Decision{Kind: KindLoading} }

// Redirect sends the caller to target.
func Redirect(target string) Decision { return Decision{Kind: KindRedirect, Target: target} }

// EvaluateProtected is the guard for pages that require an authenticated,
// onboarded, role-permitted caller.
//
// # Decision Order
//  1. Resolution in flight → placeholder.
//  2. No credential → redirect to the login page.
//  3. Onboarding incomplete and not already on the onboarding page →
//     redirect to onboarding. The inverse transition sends fully onboarded
//     callers away from the onboarding page. Both checks compare against the
//     current path, so a redirect can never target the page it came from.
//  4. Role outside the allowed set → redirect to the access-denied page.
//     A nil/empty set admits every onboarded role.
func EvaluateProtected(snapshot session.Snapshot, currentPath string, allowedRoles sec.RoleSet) Decision {
	if snapshot.Loading {
		return Loading()
	}

	if !snapshot.Authenticated() {
		return Redirect(constants.PathLogin)
	}

	needsOnboarding := OnboardingRequired(snapshot.User)
	if needsOnboarding && currentPath != constants.PathOnboarding {
		return Redirect(constants.PathOnboarding)
	}
	if !needsOnboarding && currentPath == constants.PathOnboarding {
		return Redirect(constants.PathLanding)
	}

	if len(allowedRoles) > 0 {
		if snapshot.User == nil || !allowedRoles.Contains(snapshot.User.Role) {
			return Redirect(constants.PathUnauthorized)
		}
	}

	return Render()
}

// EvaluateGuest is the guard for pages reserved for anonymous visitors
// (landing, login). Authenticated callers are sent into the application.
func EvaluateGuest(snapshot session.Snapshot) Decision {
	if snapshot.Loading {
		return Loading()
	}

	if snapshot.Authenticated() {
		return Redirect(constants.PathDashboard)
	}

	return Render()
}
