package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/altruvue/fundraiser-backend/internal/platform/envutil"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

// StatsCache is a read-through cache for analytics payloads. It is optional:
// when REDIS_ADDR is unset the service runs with a nil cache and every read
// goes to Postgres.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateOrg(ctx context.Context, orgID uuid.UUID) error
}

type statsCache struct {
	client *redis.Client
	log    *logger.Logger
	ttl    time.Duration
}

// NewStatsCacheFromEnv returns nil (not an error) when REDIS_ADDR is unset.
func NewStatsCacheFromEnv(baseLog *logger.Logger) (StatsCache, error) {
	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.Str("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &statsCache{
		client: client,
		log:    baseLog.With("service", "StatsCache"),
		ttl:    envutil.Duration("STATS_CACHE_TTL", 10*time.Minute),
	}, nil
}

func StatsKey(orgID uuid.UUID, section string) string {
	return fmt.Sprintf("stats:%s:%s", orgID, section)
}

func (c *statsCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached stats %q: %w", key, err)
	}
	return true, nil
}

func (c *statsCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode stats %q: %w", key, err)
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *statsCache) InvalidateOrg(ctx context.Context, orgID uuid.UUID) error {
	pattern := fmt.Sprintf("stats:%s:*", orgID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
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
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	c.log.Debug("invalidated stats cache", "org_id", orgID.String(), "keys", len(keys))
	return nil
}
