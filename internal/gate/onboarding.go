// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package gate

import (
	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/sec"
)

// OnboardingRequired reports whether the account must complete the onboarding
// flow before entering the main application.
//
// # Rule
//
// A linked company is the master toggle: once company_id is set the account is
// onboarded, full stop. Without one, any of these signals routes the account
// to onboarding:
//
//   - the server-declared onboarding flag,
//   - the candidate role (candidates always onboard),
//   - no legacy company memberships (the pre-company_id completeness signal).
//
// The sub-conditions are named so the rule can be audited as one pure function.
func OnboardingRequired(user *identity.User) bool {
	if user == nil {
		return true
	}

	hasCompany := user.CompanyID != ""
	if hasCompany {
		return false
	}

	hasOnboardingFlag := user.Onboarding
	isCandidateRole := user.Role == sec.RoleCandidate
	hasLegacyCompanies := len(user.Companies) > 0

	return hasOnboardingFlag || isCandidateRole || !hasLegacyCompanies
}
