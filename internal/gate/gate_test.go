// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saberhq/saber/internal/gate"
	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/session"
)

/*
TestEvaluateProtected_DecisionTable walks the full redirect table for a
recruiter/admin page (/jobs).
*/
func TestEvaluateProtected_DecisionTable(t *testing.T) {
	recruiterOrAdmin := sec.Roles(sec.RoleRecruiter, sec.RoleAdmin)

	tests := []struct {
		name     string
		snapshot session.Snapshot
		path     string
		want     gate.Decision
	}{
		{
			name:     "loading_shows_placeholder",
			snapshot: session.Snapshot{Token: "t", Loading: true},
			path:     "/jobs",
			want:     gate.Loading(),
		},
		{
			name:     "no_token_redirects_to_login",
			snapshot: session.Snapshot{},
			path:     "/jobs",
			want:     gate.Redirect("/login"),
		},
		{
			name: "candidate_without_company_redirects_to_onboarding",
			snapshot: session.Snapshot{
				Token: "t",
				User:  &identity.User{ID: "u1", Role: sec.RoleCandidate},
			},
			path: "/jobs",
			want: gate.Redirect("/onboarding"),
		},
		{
			name: "onboarded_user_leaves_onboarding_page",
			snapshot: session.Snapshot{
				Token: "t",
				User:  &identity.User{ID: "u1", Role: sec.RoleRecruiter, CompanyID: "c1"},
			},
			path: "/onboarding",
			want: gate.Redirect("/"),
		},
		{
			name: "onboarded_candidate_lacks_role_for_jobs",
			snapshot: session.Snapshot{
				Token: "t",
				User:  &identity.User{ID: "u1", Role: sec.RoleCandidate, CompanyID: "c1"},
			},
			path: "/jobs",
			want: gate.Redirect("/unauthorized"),
		},
		{
			name: "onboarded_recruiter_renders_jobs",
			snapshot: session.Snapshot{
				Token: "t",
				User:  &identity.User{ID: "u1", Role: sec.RoleRecruiter, CompanyID: "c1"},
			},
			path: "/jobs",
			want: gate.Render(),
		},
		{
			name: "onboarded_admin_renders_jobs",
			snapshot: session.Snapshot{
				Token: "t",
				User:  &identity.User{ID: "u1", Role: sec.RoleAdmin, CompanyID: "c1"},
			},
			path: "/jobs",
			want: gate.Render(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.EvaluateProtected(tt.snapshot, tt.path, recruiterOrAdmin)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestEvaluateProtected_NoRedirectLoops verifies that a guard evaluation never
redirects a path to itself.
*/
func TestEvaluateProtected_NoRedirectLoops(t *testing.T) {
	// 1. An un-onboarded recruiter already on /onboarding stays there
	needsOnboarding := session.Snapshot{
		Token: "t",
		User:  &identity.User{ID: "u1", Role: sec.RoleRecruiter, Onboarding: true},
	}
	decision := gate.EvaluateProtected(needsOnboarding, "/onboarding", nil)
	assert.Equal(t, gate.Render(), decision)

	// 2. An onboarded recruiter on a regular page is not bounced through "/"
	onboarded := session.Snapshot{
		Token: "t",
		User:  &identity.User{ID: "u1", Role: sec.RoleRecruiter, CompanyID: "c1"},
	}
	decision = gate.EvaluateProtected(onboarded, "/dashboard", sec.Roles(sec.RoleRecruiter, sec.RoleAdmin))
	assert.Equal(t, gate.Render(), decision)
}

/*
TestEvaluateProtected_NilRoleSet verifies that a protected page without a role
restriction admits every onboarded, authenticated role.
*/
func TestEvaluateProtected_NilRoleSet(t *testing.T) {
	snapshot := session.Snapshot{
		Token: "t",
		User:  &identity.User{ID: "u1", Role: sec.RoleCandidate, CompanyID: "c1"},
	}

	decision := gate.EvaluateProtected(snapshot, "/dashboard", nil)
	assert.Equal(t, gate.Render(), decision)
}

/*
TestEvaluateGuest_DecisionTable covers the guest-guard rows: authenticated
callers are sent into the application, anonymous callers render, and an
in-flight resolution shows the placeholder regardless of token.
*/
func TestEvaluateGuest_DecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		want     gate.Decision
	}{
		{
			name:     "token_present_redirects_into_app",
			snapshot: session.Snapshot{Token: "t", User: &identity.User{ID: "u1", Role: sec.RoleRecruiter}},
			want:     gate.Redirect("/dashboard"),
		},
		{
			name:     "token_absent_renders",
			snapshot: session.Snapshot{},
			want:     gate.Render(),
		},
		{
			name:     "loading_shows_placeholder_even_with_token",
			snapshot: session.Snapshot{Token: "t", Loading: true},
			want:     gate.Loading(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.EvaluateGuest(tt.snapshot)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestTable_CoversEveryPage sanity-checks the declarative route table: paths are
unique and the admin page is admin-only.
*/
func TestTable_CoversEveryPage(t *testing.T) {
	table := gate.Table()

	seen := make(map[string]bool)
	for _, route := range table {
		assert.False(t, seen[route.Path], "duplicate route %s", route.Path)
		seen[route.Path] = true
	}

	assert.True(t, seen["/jobs"])
	assert.True(t, seen["/admin/settings"])

	for _, route := range table {
		if route.Path == "/admin/settings" {
			assert.True(t, route.Roles.Contains(sec.RoleAdmin))
			assert.False(t, route.Roles.Contains(sec.RoleRecruiter))
		}
	}
}
