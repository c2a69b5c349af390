// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saberhq/saber/internal/platform/constants"
	"github.com/saberhq/saber/internal/platform/sec"
)

// aiKeyBytes is the entropy of an issued AI service key (64 hex chars).
const aiKeyBytes = 32

// currentKeySlot is the Redis key holding the active AI key hash. Issuing a
// new key overwrites it, revoking the previous one.
const currentKeySlot = constants.RedisPrefixAIKey + "current"

// Service implements operator use cases.
type Service struct {
	metricsRepository MetricsRepository
	redisClient       *redis.Client
}

// NewService constructs a new admin [Service].
func NewService(metricsRepo MetricsRepository, redisClient *redis.Client) *Service {
	return &Service{metricsRepository: metricsRepo, redisClient: redisClient}
}

// Overview returns the platform metrics snapshot.
func (service *Service) Overview(ctx context.Context) (*Metrics, error) {
	swipes, matches, activeJobs, activeCandidates, err := service.metricsRepository.Counters(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin_service_overview_failed: %w", err)
	}

	matchRate := 0.0
	if swipes > 0 {
		matchRate = float64(matches) / float64(swipes)
	}

	return &Metrics{
		TotalSwipes:      swipes,
		TotalMatches:     matches,
		MatchRate:        matchRate,
		ActiveJobs:       activeJobs,
		ActiveCandidates: activeCandidates,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

// RotateAIKey issues a fresh AI service key and stores only its bcrypt hash.
//
// # Returns
//   - *KeyGrant: Carries the plaintext key. It is never retrievable again.
func (service *Service) RotateAIKey(ctx context.Context) (*KeyGrant, error) {
	plainKey, err := sec.GenerateSecureToken(aiKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("admin_service_generate_key_failed: %w", err)
	}

	hash, err := sec.HashKey(plainKey)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_key_failed: %w", err)
	}

	if err := service.redisClient.Set(ctx, currentKeySlot, hash, 0).Err(); err != nil {
		return nil, fmt.Errorf("admin_service_store_key_failed: %w", err)
	}

	return &KeyGrant{
		Status:      "ok",
		NewKey:      plainKey,
		Message:     "Store this key now. It will not be shown again.",
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// VerifyAIKey reports whether the presented plaintext matches the active key.
func (service *Service) VerifyAIKey(ctx context.Context, plainKey string) (bool, error) {
	hash, err := service.redisClient.Get(ctx, currentKeySlot).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("admin_service_load_key_failed: %w", err)
	}

	return sec.CheckKeyHash(plainKey, hash), nil
}
