// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/identity"
	"github.com/saberhq/saber/internal/platform/sec"
	"github.com/saberhq/saber/internal/session"
)

const testSessionID = "sid-1"

// stubResolver resolves tokens from a fixed map. Unknown tokens fail, which
// the store must treat as an invalid credential. Per-token gates let tests
// hold a resolution in flight to provoke out-of-order completion.
type stubResolver struct {
	mu       sync.Mutex
	calls    int
	profiles map[string]*identity.User
	gates    map[string]chan struct{}
}

func newStubResolver() *stubResolver {
	return &stubResolver{
		profiles: make(map[string]*identity.User),
		gates:    make(map[string]chan struct{}),
	}
}

func (r *stubResolver) ResolveProfile(_ context.Context, token string) (*identity.User, error) {
	r.mu.Lock()
	r.calls++
	gate := r.gates[token]
	profile := r.profiles[token]
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if profile == nil {
		return nil, errors.New("invalid token")
	}
	return profile, nil
}

func (r *stubResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestStore(slot session.TokenSlot, resolver session.ProfileResolver) *session.Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewStore(slot, resolver, logger)
}

func settled(store *session.Store, sessionID string) func() bool {
	return func() bool {
		return !store.Snapshot(context.Background(), sessionID).Loading
	}
}

/*
TestStore_BootstrapWithoutToken verifies that an empty durable slot settles to
logged-out immediately, without any resolution call.
*/
func TestStore_BootstrapWithoutToken(t *testing.T) {
	resolver := newStubResolver()
	store := newTestStore(session.NewMemoryTokenSlot(), resolver)

	snapshot := store.Snapshot(context.Background(), testSessionID)

	assert.False(t, snapshot.Loading)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.User)
	assert.Equal(t, 0, resolver.callCount())
}

/*
TestStore_BootstrapWithValidToken verifies that a previously persisted token
is picked up on first sighting and resolved into a profile.
*/
func TestStore_BootstrapWithValidToken(t *testing.T) {
	ctx := context.Background()

	// 1. Persist a token before the store ever sees the session
	slot := session.NewMemoryTokenSlot()
	require.NoError(t, slot.Set(ctx, testSessionID, "token-valid"))

	resolver := newStubResolver()
	resolver.profiles["token-valid"] = &identity.User{ID: "u1", Email: "r@saber.app", Role: sec.RoleRecruiter}
	store := newTestStore(slot, resolver)

	// 2. First snapshot triggers the bootstrap resolution
	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	snapshot := store.Snapshot(ctx, testSessionID)
	assert.Equal(t, "token-valid", snapshot.Token)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "u1", snapshot.User.ID)
}

/*
TestStore_BootstrapWithInvalidToken verifies that a persisted token the
resolver rejects produces a full logout: no token, no user, empty slot.
*/
func TestStore_BootstrapWithInvalidToken(t *testing.T) {
	ctx := context.Background()

	slot := session.NewMemoryTokenSlot()
	require.NoError(t, slot.Set(ctx, testSessionID, "token-dead"))

	resolver := newStubResolver() // knows no tokens, every resolution fails
	store := newTestStore(slot, resolver)

	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	// 1. In-memory state is fully cleared
	snapshot := store.Snapshot(ctx, testSessionID)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.User)

	// 2. The durable slot is cleared too — an invalid token must never persist
	stored, err := slot.Get(ctx, testSessionID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

/*
TestStore_LoginResolvesProfile verifies the Login → resolution → user flow.
*/
func TestStore_LoginResolvesProfile(t *testing.T) {
	ctx := context.Background()

	slot := session.NewMemoryTokenSlot()
	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "u1", Email: "r@saber.app", Role: sec.RoleRecruiter}
	store := newTestStore(slot, resolver)

	store.Login(ctx, testSessionID, "token-a")

	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	snapshot := store.Snapshot(ctx, testSessionID)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "u1", snapshot.User.ID)

	// The durable slot mirrors the credential
	stored, err := slot.Get(ctx, testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "token-a", stored)
}

/*
TestStore_IdempotentLogout verifies that a second logout leaves state
identical to the first.
*/
func TestStore_IdempotentLogout(t *testing.T) {
	ctx := context.Background()

	slot := session.NewMemoryTokenSlot()
	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "u1", Role: sec.RoleRecruiter}
	store := newTestStore(slot, resolver)

	store.Login(ctx, testSessionID, "token-a")
	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	// 1. First logout clears everything
	store.Logout(ctx, testSessionID)
	first := store.Snapshot(ctx, testSessionID)

	// 2. Second logout is a no-op
	store.Logout(ctx, testSessionID)
	second := store.Snapshot(ctx, testSessionID)

	assert.Equal(t, first, second)
	assert.Empty(t, second.Token)
	assert.Nil(t, second.User)
	assert.False(t, second.Loading)
}

/*
TestStore_RaceConvergesToLastLogin verifies last-write-wins ordering: when
login("A") is immediately followed by login("B"), the session must end on B's
profile even though A's resolution completes afterwards.
*/
func TestStore_RaceConvergesToLastLogin(t *testing.T) {
	ctx := context.Background()

	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "user-a", Role: sec.RoleRecruiter}
	resolver.profiles["token-b"] = &identity.User{ID: "user-b", Role: sec.RoleRecruiter}

	// Hold A's resolution in flight until after B has committed
	gateA := make(chan struct{})
	resolver.gates["token-a"] = gateA

	store := newTestStore(session.NewMemoryTokenSlot(), resolver)

	// 1. Two logins in quick succession
	store.Login(ctx, testSessionID, "token-a")
	store.Login(ctx, testSessionID, "token-b")

	// 2. B resolves first and commits
	require.Eventually(t, func() bool {
		snapshot := store.Snapshot(ctx, testSessionID)
		return snapshot.User != nil && snapshot.User.ID == "user-b"
	}, time.Second, 5*time.Millisecond)

	// 3. A's slow response arrives late and must be dropped as stale
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	snapshot := store.Snapshot(ctx, testSessionID)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, "user-b", snapshot.User.ID)
	assert.Equal(t, "token-b", snapshot.Token)
}

/*
TestStore_ConcurrentLoginsKeepSlotInSync verifies that the durable slot always
ends up holding the token of the login that won in memory. If the slot write
escaped the ordering, a later bootstrap would resolve a replaced credential.
*/
func TestStore_ConcurrentLoginsKeepSlotInSync(t *testing.T) {
	ctx := context.Background()

	slot := session.NewMemoryTokenSlot()
	resolver := newStubResolver()

	const logins = 16
	tokens := make([]string, logins)
	for i := range tokens {
		tokens[i] = "token-" + string(rune('a'+i))
		resolver.profiles[tokens[i]] = &identity.User{ID: "user-" + string(rune('a'+i)), Role: sec.RoleRecruiter}
	}

	store := newTestStore(slot, resolver)

	// 1. Fire all logins concurrently
	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			store.Login(ctx, testSessionID, token)
		}(token)
	}
	wg.Wait()

	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	// 2. Whichever login won, memory and the durable slot must agree
	snapshot := store.Snapshot(ctx, testSessionID)
	stored, err := slot.Get(ctx, testSessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.Token)
	assert.Equal(t, snapshot.Token, stored)
}

/*
TestStore_StaleResolutionAfterLogout verifies that a resolution still in
flight when the session logs out can never resurrect the cleared state.
*/
func TestStore_StaleResolutionAfterLogout(t *testing.T) {
	ctx := context.Background()

	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "user-a", Role: sec.RoleRecruiter}
	gateA := make(chan struct{})
	resolver.gates["token-a"] = gateA

	store := newTestStore(session.NewMemoryTokenSlot(), resolver)

	// 1. Login with the resolution held in flight, then logout
	store.Login(ctx, testSessionID, "token-a")
	store.Logout(ctx, testSessionID)

	// 2. The late response must not overwrite the logged-out state
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	snapshot := store.Snapshot(ctx, testSessionID)
	assert.Empty(t, snapshot.Token)
	assert.Nil(t, snapshot.User)
	assert.False(t, snapshot.Loading)
}

/*
TestStore_LoginLogoutRoundTrip verifies that login followed by logout leaves
the durable storage with no token, equivalent to the pre-login state.
*/
func TestStore_LoginLogoutRoundTrip(t *testing.T) {
	ctx := context.Background()

	slot := session.NewMemoryTokenSlot()
	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "u1", Role: sec.RoleRecruiter}
	store := newTestStore(slot, resolver)

	store.Login(ctx, testSessionID, "token-a")
	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)
	store.Logout(ctx, testSessionID)

	stored, err := slot.Get(ctx, testSessionID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

/*
TestStore_RefreshUserPicksUpProfileChanges verifies that RefreshUser re-runs
resolution for the current token without requiring a token change.
*/
func TestStore_RefreshUserPicksUpProfileChanges(t *testing.T) {
	ctx := context.Background()

	resolver := newStubResolver()
	resolver.profiles["token-a"] = &identity.User{ID: "u1", Role: sec.RoleRecruiter}
	store := newTestStore(session.NewMemoryTokenSlot(), resolver)

	store.Login(ctx, testSessionID, "token-a")
	require.Eventually(t, settled(store, testSessionID), time.Second, 5*time.Millisecond)

	// Simulate onboarding completing server-side: the profile gains a company
	resolver.mu.Lock()
	resolver.profiles["token-a"] = &identity.User{ID: "u1", Role: sec.RoleRecruiter, CompanyID: "c1"}
	resolver.mu.Unlock()

	store.RefreshUser(ctx, testSessionID)

	require.Eventually(t, func() bool {
		snapshot := store.Snapshot(ctx, testSessionID)
		return !snapshot.Loading && snapshot.User != nil && snapshot.User.CompanyID == "c1"
	}, time.Second, 5*time.Millisecond)
}
