package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecopulse/models"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache holds the ranked, viewer-independent leaderboard.
type LeaderboardCache interface {
	Get(ctx context.Context) (entries []models.LeaderboardEntry, total int, ok bool, err error)
	Set(ctx context.Context, entries []models.LeaderboardEntry, total int) error
	Invalidate(ctx context.Context) error
}

const leaderboardCacheKey = "ecopulse:leaderboard:v1"

// RedisLeaderboardCache implements LeaderboardCache using Redis.
type RedisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLeaderboardCache connects using a redis:// URL.
func NewRedisLeaderboardCache(redisURL string, ttl time.Duration) (*RedisLeaderboardCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return &RedisLeaderboardCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// cachedLeaderboard keeps user ids next to the entries; LeaderboardEntry
// never serialises them.
type cachedLeaderboard struct {
	Entries []models.LeaderboardEntry `json:"entries"`
	UserIDs []string                  `json:"user_ids"`
	Total   int                       `json:"total"`
}

func (c *RedisLeaderboardCache) Get(ctx context.Context) ([]models.LeaderboardEntry, int, bool, error) {
	raw, err := c.client.Get(ctx, leaderboardCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var cached cachedLeaderboard
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, 0, false, err
	}
	if len(cached.UserIDs) != len(cached.Entries) {
		return nil, 0, false, nil
	}
	for i := range cached.Entries {
		cached.Entries[i].UserID = cached.UserIDs[i]
	}
	return cached.Entries, cached.Total, true, nil
}

func (c *RedisLeaderboardCache) Set(ctx context.Context, entries []models.LeaderboardEntry, total int) error {
	cached := cachedLeaderboard{Entries: entries, UserIDs: make([]string, len(entries)), Total: total}
	for i, e := range entries {
		cached.UserIDs[i] = e.UserID
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardCacheKey, raw, c.ttl).Err()
}

func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardCacheKey).Err()
}

// Close releases the underlying connection pool.
func (c *RedisLeaderboardCache) Close() error {
	return c.client.Close()
}
