package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"access-service/internal/entitlements"
)

// EntitlementCache caches the resolved feature list per organization in
// Redis. It only ever holds plan-derived feature sets; organization
// membership is deliberately never cached (a revoked membership must take
// effect on the very next request).
type EntitlementCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEntitlementCache creates a new entitlement cache instance. When Redis
// is unreachable the cache degrades to a no-op rather than failing startup.
func NewEntitlementCache(host string, port int, password string, db int, ttlSeconds int) (*EntitlementCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return &EntitlementCache{
			client: nil,
			ttl:    time.Duration(ttlSeconds) * time.Second,
		}, nil
	}

	return &EntitlementCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *EntitlementCache) cacheKey(orgID uuid.UUID) string {
	return fmt.Sprintf("features:%s", orgID.String())
}

// Get retrieves the cached feature list for an organization. A miss and an
// unavailable cache both return (nil, nil).
func (c *EntitlementCache) Get(ctx context.Context, orgID uuid.UUID) ([]entitlements.FeatureKey, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.cacheKey(orgID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var features []entitlements.FeatureKey
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, err
	}
	return features, nil
}

// Set caches the feature list for an organization
func (c *EntitlementCache) Set(ctx context.Context, orgID uuid.UUID, features []entitlements.FeatureKey) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.cacheKey(orgID), data, c.ttl).Err()
}

// Invalidate removes the cached feature list for an organization. Call it
// whenever the organization's plan, type or hierarchy position changes.
func (c *EntitlementCache) Invalidate(ctx context.Context, orgID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.cacheKey(orgID)).Err()
}

// Close closes the Redis connection
func (c *EntitlementCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable returns true if the cache is available
func (c *EntitlementCache) IsAvailable() bool {
	return c != nil && c.client != nil
}
