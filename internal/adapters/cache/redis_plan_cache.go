package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fuelroute-service/internal/domain"
)

const planKeyPrefix = "fuelroute:plan:"

// Redis-backed plan cache. Plans are stored as JSON under a fingerprint of
// the optimization request and expire after the configured TTL, so stale
// prices and traffic age out rather than being served forever.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: ttl}
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (*domain.RoutePlan, error) {
	raw, err := c.client.Get(ctx, planKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("plan cache get %q: %w", key, err)
	}

	var plan domain.RoutePlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes.
		return nil, nil
	}
	return &plan, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key string, plan *domain.RoutePlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("plan cache put %q: marshal: %w", key, err)
	}
	if err := c.client.Set(ctx, planKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("plan cache put %q: %w", key, err)
	}
	return nil
}

// RequestFingerprint derives a stable cache key from any JSON-serializable
// request value. Two requests with identical content always hash alike.
func RequestFingerprint(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("request fingerprint: marshal: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
