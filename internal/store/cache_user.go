package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// userCache is the Redis-backed implementation of [UserCache]. Profile
// snapshots are stored as JSON under "user:<lowercase-username>" keys.
//
// Entries carry no TTL: whether a snapshot is too old to serve is a domain
// rule applied by the service layer on read, not an eviction concern.
type userCache struct {
	logger *logger.Logger
	client *redis.Client
}

// NewUserCache constructs a [UserCache] backed by the provided Redis client
// and logger.
func NewUserCache(client *redis.Client, logger *logger.Logger) UserCache {
	logger.Debug().Msg("creating user profile cache")
	return &userCache{
		client: client,
		logger: logger,
	}
}

// userCacheKey returns the cache key for a username. Keys are lowercased so
// lookups are case-insensitive, matching the database collation rules.
func userCacheKey(username string) string {
	return "user:" + strings.ToLower(username)
}

// GetUser returns the cached profile for the given username.
func (c *userCache) GetUser(ctx context.Context, username string) (models.User, error) {
	log := logger.FromContext(ctx)

	payload, err := c.client.Get(ctx, userCacheKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.User{}, ErrUserNotCached
		}
		log.Err(err).Str("func", "*userCache.GetUser").Msg("failed to read cached profile")
		return models.User{}, fmt.Errorf("error reading cached profile: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(payload, &user); err != nil {
		log.Err(err).Str("func", "*userCache.GetUser").Msg("failed to decode cached profile")
		return models.User{}, fmt.Errorf("error decoding cached profile: %w", err)
	}

	return user, nil
}

// GetUsers returns cached profiles for the given usernames using a single
// MGET round-trip. Cache misses and undecodable entries are skipped; the
// result preserves the order of the input usernames.
func (c *userCache) GetUsers(ctx context.Context, usernames []string) ([]models.User, error) {
	log := logger.FromContext(ctx)

	if len(usernames) == 0 {
		return []models.User{}, nil
	}

	keys := make([]string, 0, len(usernames))
	for _, username := range usernames {
		keys = append(keys, userCacheKey(username))
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		log.Err(err).
			Str("func", "*userCache.GetUsers").
			Int("usernames count", len(usernames)).
			Msg("failed to read cached profiles")
		return nil, fmt.Errorf("error reading cached profiles: %w", err)
	}

	users := make([]models.User, 0, len(values))
	for i, value := range values {
		payload, ok := value.(string)
		if !ok {
			continue // cache miss
		}

		var user models.User
		if err := json.Unmarshal([]byte(payload), &user); err != nil {
			log.Warn().
				Str("func", "*userCache.GetUsers").
				Str("username", usernames[i]).
				Msg("skipping undecodable cached profile")
			continue
		}

		users = append(users, user)
	}

	return users, nil
}

// SaveUser upserts the cached profile snapshot for user.Username.
func (c *userCache) SaveUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(user)
	if err != nil {
		log.Err(err).Str("func", "*userCache.SaveUser").Msg("failed to encode profile")
		return fmt.Errorf("error encoding profile: %w", err)
	}

	if err := c.client.Set(ctx, userCacheKey(user.Username), payload, 0).Err(); err != nil {
		log.Err(err).Str("func", "*userCache.SaveUser").Msg("failed to write cached profile")
		return fmt.Errorf("error writing cached profile: %w", err)
	}

	return nil
}

// DeleteUser removes the cached profile for the given username.
func (c *userCache) DeleteUser(ctx context.Context, username string) error {
	log := logger.FromContext(ctx)

	if err := c.client.Del(ctx, userCacheKey(username)).Err(); err != nil {
		log.Err(err).Str("func", "*userCache.DeleteUser").Msg("failed to delete cached profile")
		return fmt.Errorf("error deleting cached profile: %w", err)
	}

	return nil
}
