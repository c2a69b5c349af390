// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

/*
Package session holds the authentication state of every active browser session.

Each session is a {token, user, loading} triple keyed by the saber_sid cookie:

  - token: the opaque bearer credential, mirrored to a durable slot so it
    survives page reloads and server restarts.
  - user: the resolved account profile, absent while unresolved or anonymous.
  - loading: true from the moment a resolution is triggered until the attempt
    (success or failure) completes.

Architecture:

  - Store: the single owner of all session state, with a narrow mutation API
    (Login, Logout, RefreshUser). Readers take immutable snapshots.
  - TokenSlot: the durable per-session credential slot (Redis in production,
    in-memory in tests).
  - ProfileResolver: token → profile, implemented by the identity service.

Resolution failures are never retried: a token that cannot be resolved is
treated as no longer valid and converted into a logout.
*/
package session

import (
	"context"

	"github.com/saberhq/saber/internal/identity"
)

// Snapshot is an immutable view of one browser session's authentication state.
//
// # Invariants
//   - User is only ever present when Token is present.
//   - Loading is false whenever Token is absent.
type Snapshot struct {
	Token   string
	User    *identity.User
	Loading bool
}

// Authenticated reports whether the session currently holds a credential.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// ProfileResolver maps a bearer token to its account profile.
//
// Implementations must treat every failure — network, storage, or an
// invalid/expired token — the same way: return an error. The store converts
// any resolution error into a logout.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, token string) (*identity.User, error)
}

// TokenSlot is the durable credential slot, one value per browser session.
//
// Get returns an empty string (and no error) when the slot is empty.
type TokenSlot interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}
