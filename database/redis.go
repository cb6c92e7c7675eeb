package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matchpredict-go/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// RedisFixtureCache is a short-TTL cache in front of the fixture provider.
// Cache failures only cost a provider round trip, so they are logged and
// swallowed.
type RedisFixtureCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisFixtureCache creates a fixture cache with the given entry TTL
func NewRedisFixtureCache(client *redis.Client, ttl time.Duration) *RedisFixtureCache {
	return &RedisFixtureCache{
		client: client,
		ttl:    ttl,
		logger: log.With().Str("component", "fixture_cache").Logger(),
	}
}

func fixtureKey(day time.Time) string {
	return "fixtures:" + day.UTC().Format("2006-01-02")
}

// GetFixtures returns the cached fixture list for a day, ok=false on miss
func (c *RedisFixtureCache) GetFixtures(ctx context.Context, day time.Time) ([]models.Match, bool) {
	data, err := c.client.Get(ctx, fixtureKey(day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("cache read failed")
		}
		return nil, false
	}

	var matches []models.Match
	if err := json.Unmarshal(data, &matches); err != nil {
		c.logger.Warn().Err(err).Msg("cache entry corrupt, dropping")
		c.client.Del(ctx, fixtureKey(day))
		return nil, false
	}
	return matches, true
}

// SetFixtures stores the fixture list for a day
func (c *RedisFixtureCache) SetFixtures(ctx context.Context, day time.Time, matches []models.Match) {
	data, err := json.Marshal(matches)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to marshal fixtures for cache")
		return
	}
	if err := c.client.Set(ctx, fixtureKey(day), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}
