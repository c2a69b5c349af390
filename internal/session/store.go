// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saberhq/saber/internal/identity"
)

// resolveTimeout bounds a single profile-resolution attempt.
const resolveTimeout = 15 * time.Second

// sessionState is the mutable per-session record owned by the [Store].
//
// The generation counter orders resolution attempts: every Login, Logout, and
// RefreshUser bumps it, and a resolution result commits only if the session is
// still on the generation that triggered it. This is what makes concurrent
// logins converge to the last one (last write wins) and stale responses
// arriving after a logout harmless.
type sessionState struct {
	token      string
	user       *identity.User
	loading    bool
	generation uint64
}

// Store owns the authentication state of all active browser sessions.
//
// # Concurrency
//
// All state lives behind one mutex. Resolution runs in background goroutines
// that re-acquire the mutex to commit; the guard predicates and HTTP handlers
// only ever read immutable [Snapshot] copies. Durable slot writes also happen
// under the mutex: the slot must end up holding the token of the last ordered
// Login/Logout, or the next bootstrap would resolve a replaced credential.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionState

	slot     TokenSlot
	resolver ProfileResolver
	logger   *slog.Logger
}

// NewStore constructs a session [Store].
func NewStore(slot TokenSlot, resolver ProfileResolver, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*sessionState),
		slot:     slot,
		resolver: resolver,
		logger:   logger,
	}
}

// Snapshot returns the current state of a browser session.
//
// The first sighting of a session ID bootstraps it from the durable slot: an
// empty slot settles immediately to logged-out without any resolution call; a
// stored token starts an asynchronous resolution and the snapshot reports
// loading until it completes.
func (store *Store) Snapshot(ctx context.Context, sessionID string) Snapshot {
	state := store.state(ctx, sessionID)

	store.mu.Lock()
	defer store.mu.Unlock()
	return Snapshot{Token: state.token, User: state.user, Loading: state.loading}
}

// Login persists the token as the session's durable credential, replaces the
// in-memory token, and triggers an asynchronous profile resolution.
//
// Login cannot fail synchronously: a slot write error is logged and the
// in-memory session still proceeds, so the caller's flow is never blocked on
// the durable layer.
func (store *Store) Login(ctx context.Context, sessionID, token string) {
	store.mu.Lock()
	state, ok := store.sessions[sessionID]
	if !ok {
		state = &sessionState{}
		store.sessions[sessionID] = state
	}
	state.generation++
	state.token = token
	state.loading = true
	generation := state.generation

	// The slot write stays inside the critical section so concurrent logins
	// leave the durable token in the same order as the in-memory one.
	err := store.slot.Set(ctx, sessionID, token)
	store.mu.Unlock()

	if err != nil {
		store.logger.Error("session_slot_write_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}

	go store.resolve(sessionID, generation, token)
}

// Logout clears the durable slot and the in-memory token and user.
//
// Idempotent: logging out an already-anonymous session is a no-op. The
// generation bump ensures any resolution still in flight can never write
// stale user data over the cleared state.
func (store *Store) Logout(ctx context.Context, sessionID string) {
	store.mu.Lock()
	state, ok := store.sessions[sessionID]
	if !ok {
		state = &sessionState{}
		store.sessions[sessionID] = state
	}
	state.generation++
	state.token = ""
	state.user = nil
	state.loading = false

	err := store.slot.Delete(ctx, sessionID)
	store.mu.Unlock()

	if err != nil {
		store.logger.Error("session_slot_delete_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
}

// RefreshUser re-resolves the session's profile on demand, without requiring
// a token change. Used after onboarding mutations so the session reflects the
// new company link.
//
// Safe to call concurrently with itself: each call bumps the generation, so
// the session converges to the result of the last call.
func (store *Store) RefreshUser(ctx context.Context, sessionID string) {
	state := store.state(ctx, sessionID)

	store.mu.Lock()
	if state.token == "" {
		state.loading = false
		store.mu.Unlock()
		return
	}
	state.generation++
	state.loading = true
	generation, token := state.generation, state.token
	store.mu.Unlock()

	go store.resolve(sessionID, generation, token)
}

// Token returns the bearer credential currently held by the session, or ""
// for anonymous sessions. Implements the middleware session-token source.
func (store *Store) Token(ctx context.Context, sessionID string) (string, error) {
	state := store.state(ctx, sessionID)

	store.mu.Lock()
	defer store.mu.Unlock()
	return state.token, nil
}

// ClearToken discards the session's credential. Implements the middleware
// session-token source; the global 401 rule funnels through here.
func (store *Store) ClearToken(ctx context.Context, sessionID string) error {
	store.Logout(ctx, sessionID)
	return nil
}

// state returns the session record, bootstrapping it from the durable slot on
// first sighting.
func (store *Store) state(ctx context.Context, sessionID string) *sessionState {
	store.mu.Lock()
	if state, ok := store.sessions[sessionID]; ok {
		store.mu.Unlock()
		return state
	}
	store.mu.Unlock()

	// First sighting: read the durable slot outside the lock.
	token, err := store.slot.Get(ctx, sessionID)
	if err != nil {
		store.logger.Error("session_slot_read_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		token = ""
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	// Another request may have bootstrapped the session meanwhile.
	if state, ok := store.sessions[sessionID]; ok {
		return state
	}

	state := &sessionState{token: token}
	if token != "" {
		state.loading = true
		state.generation = 1
		go store.resolve(sessionID, 1, token)
	}
	store.sessions[sessionID] = state

	return state
}

// resolve performs one profile-resolution attempt and commits its outcome.
//
// # Commit Rule
//
// The result is applied only if the session is still on the generation (and
// token) that triggered this attempt. Anything else — a newer login, a
// refresh, a logout — makes this attempt stale, and stale attempts are
// dropped without side effects.
//
// # Failure Rule
//
// A failed resolution means the token is no longer valid: the session is
// fully logged out (slot included). No retry, no backoff.
func (store *Store) resolve(sessionID string, generation uint64, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	user, err := store.resolver.ResolveProfile(ctx, token)

	store.mu.Lock()
	state, ok := store.sessions[sessionID]
	if !ok || state.generation != generation || state.token != token {
		store.mu.Unlock()
		return
	}

	if err != nil {
		state.generation++
		state.token = ""
		state.user = nil
		state.loading = false

		delErr := store.slot.Delete(ctx, sessionID)
		store.mu.Unlock()

		if delErr != nil {
			store.logger.Error("session_slot_delete_failed",
				slog.String("session_id", sessionID),
				slog.Any("error", delErr),
			)
		}
		store.logger.Warn("session_resolution_failed_logged_out",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		return
	}

	state.user = user
	state.loading = false
	store.mu.Unlock()
}
