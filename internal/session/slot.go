// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/saberhq/saber/internal/platform/constants"
)

// ── Redis Slot ───────────────────────────────────────────────────────────────

// RedisTokenSlot implements [TokenSlot] on Redis.
//
// Keys follow the cache taxonomy in [constants.RedisPrefixTokenSlot] and carry
// a sliding TTL so abandoned browser sessions eventually disappear.
type RedisTokenSlot struct {
	client *redis.Client
}

// NewRedisTokenSlot creates the production token slot backed by Redis.
func NewRedisTokenSlot(client *redis.Client) *RedisTokenSlot {
	return &RedisTokenSlot{client: client}
}

// Get returns the token stored for the session, or "" if the slot is empty.
func (slot *RedisTokenSlot) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := slot.client.Get(ctx, constants.RedisPrefixTokenSlot+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_token_slot_get_failed: %w", err)
	}
	return token, nil
}

// Set stores the token for the session and refreshes its TTL.
func (slot *RedisTokenSlot) Set(ctx context.Context, sessionID, token string) error {
	err := slot.client.Set(ctx, constants.RedisPrefixTokenSlot+sessionID, token, constants.SessionTTL).Err()
	if err != nil {
		return fmt.Errorf("redis_token_slot_set_failed: %w", err)
	}
	return nil
}

// Delete clears the session's slot. Deleting an empty slot is a no-op.
func (slot *RedisTokenSlot) Delete(ctx context.Context, sessionID string) error {
	err := slot.client.Del(ctx, constants.RedisPrefixTokenSlot+sessionID).Err()
	if err != nil {
		return fmt.Errorf("redis_token_slot_delete_failed: %w", err)
	}
	return nil
}

// ── In-Memory Slot ───────────────────────────────────────────────────────────

// MemoryTokenSlot implements [TokenSlot] in process memory.
//
// Used by tests and by single-node development setups without Redis.
type MemoryTokenSlot struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemoryTokenSlot creates an empty in-memory token slot.
func NewMemoryTokenSlot() *MemoryTokenSlot {
	return &MemoryTokenSlot{tokens: make(map[string]string)}
}

// Get returns the token stored for the session, or "" if the slot is empty.
func (slot *MemoryTokenSlot) Get(_ context.Context, sessionID string) (string, error) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.tokens[sessionID], nil
}

// Set stores the token for the session.
func (slot *MemoryTokenSlot) Set(_ context.Context, sessionID, token string) error {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.tokens[sessionID] = token
	return nil
}

// Delete clears the session's slot.
func (slot *MemoryTokenSlot) Delete(_ context.Context, sessionID string) error {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	delete(slot.tokens, sessionID)
	return nil
}
