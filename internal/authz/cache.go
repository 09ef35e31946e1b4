package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scopeCacheTTL = 5 * time.Minute

// RedisScopeCache memoizes resolved scopes in Redis for a short TTL so list
// queries do not hit the users/churches tables on every request.
type RedisScopeCache struct {
	client *redis.Client
}

func NewRedisScopeCache(client *redis.Client) *RedisScopeCache {
	return &RedisScopeCache{client: client}
}

func scopeCacheKey(userID string, role Role) string {
	return fmt.Sprintf("authz:scope:%s:%s", userID, role)
}

func (c *RedisScopeCache) Get(ctx context.Context, userID string, role Role) (Scope, bool, error) {
	data, err := c.client.Get(ctx, scopeCacheKey(userID, role)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Scope{}, false, nil
		}
		return Scope{}, false, err
	}

	var scope Scope
	if err := json.Unmarshal(data, &scope); err != nil {
		return Scope{}, false, err
	}
	return scope, true, nil
}

func (c *RedisScopeCache) Set(ctx context.Context, userID string, role Role, scope Scope) error {
	data, err := json.Marshal(scope)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scopeCacheKey(userID, role), data, scopeCacheTTL).Err()
}

// Invalidate drops every role variant for the user.
func (c *RedisScopeCache) Invalidate(ctx context.Context, userID string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("authz:scope:%s:*", userID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
