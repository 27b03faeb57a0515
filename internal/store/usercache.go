package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultProfileTTL = 5 * time.Minute

// CachedUsers is a read-through redis cache of public profiles in front of
// another directory. Redis failures fall back to the directory.
type CachedUsers struct {
	next  core.UserDirectory
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedUsers(next core.UserDirectory, client *redis.Client, ttl time.Duration) *CachedUsers {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &CachedUsers{next: next, redis: client, ttl: ttl}
}

func profileKey(id domain.UserID) string {
	return fmt.Sprintf("dicode:user:%s", id)
}

func (c *CachedUsers) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	key := profileKey(id)
	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u domain.User
		if err := json.Unmarshal(raw, &u); err == nil {
			return &u, nil
		}
		log.Warn().Str("module", "store.usercache").Str("user", string(id)).Msg("corrupt cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("module", "store.usercache").Str("user", string(id)).Msg("cache read failed")
	}

	u, err := c.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(u); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("module", "store.usercache").Str("user", string(id)).Msg("cache write failed")
		}
	}
	return u, nil
}

// Invalidate drops the cached profile of id.
func (c *CachedUsers) Invalidate(ctx context.Context, id domain.UserID) error {
	if err := c.redis.Del(ctx, profileKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate profile %s: %w", id, err)
	}
	return nil
}
