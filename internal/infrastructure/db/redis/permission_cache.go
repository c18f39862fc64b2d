package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	permissionKeyPrefix  = "perms:"
	defaultPermissionTTL = time.Minute
)

// PermissionCache stores effective permission sets in Redis with a short
// TTL. Key format: perms:<user_id>; value is the JSON array of system
// names. The TTL bounds how long a revocation not covered by an explicit
// invalidation can stay visible.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache wraps the given Redis client. Non-positive TTLs fall
// back to the default.
func NewPermissionCache(client *redis.Client, ttl time.Duration) *PermissionCache {
	if ttl <= 0 {
		ttl = defaultPermissionTTL
	}
	return &PermissionCache{client: client, ttl: ttl}
}

// Get returns the cached set and whether it was present.
func (c *PermissionCache) Get(ctx context.Context, userID string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("permission cache get: %w", err)
	}

	var permissions []string
	if err := json.Unmarshal([]byte(raw), &permissions); err != nil {
		// Unreadable entry: treat as a miss and let the next Set replace it.
		return nil, false, nil
	}
	return permissions, true, nil
}

// Set stores the permission set, expiring after the cache TTL.
func (c *PermissionCache) Set(ctx context.Context, userID string, permissions []string) error {
	raw, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("permission cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

// Invalidate drops the entry for one user.
func (c *PermissionCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

// InvalidateAll scans and deletes every permission entry. Used when a
// role's permission set changes, since the affected users are not
// enumerated.
func (c *PermissionCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, permissionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("permission cache flush: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("permission cache scan: %w", err)
	}
	return nil
}

func (c *PermissionCache) key(userID string) string {
	return permissionKeyPrefix + userID
}
