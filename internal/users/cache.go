package users

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "user_profile:"

// ProfileCache is a read-through Redis cache for user profiles. The profile
// endpoint is hit once per UI session, so a short TTL takes most of that
// load off the database. A nil client disables caching entirely.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(email string) string {
	return profileKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Get returns the cached profile for email, or nil on a miss.
// Cache errors are treated as misses; the caller falls through to the database.
func (c *ProfileCache) Get(ctx context.Context, email string) *User {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, profileKey(email)).Bytes()
	if err != nil {
		return nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil
	}
	return &user
}

// Set stores the profile for email. Failures are silently dropped; the cache
// is an optimization, never a source of truth.
func (c *ProfileCache) Set(ctx context.Context, email string, user User) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, profileKey(email), raw, c.ttl).Err()
}
