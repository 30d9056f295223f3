package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gudang/backend/internal/domain/shared"
	"github.com/gudang/backend/internal/domain/shared/valueobject"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/gudang/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const reportKeyPrefix = "report:"

// RedisReportCache caches generated monthly reports in Redis, keyed by
// month. It implements the report service's Cache collaborator; a miss is
// reported as shared.ErrNotFound.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache connects to Redis and returns a report cache
func NewRedisReportCache(cfg config.RedisConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{client: client, ttl: cfg.ReportTTL}, nil
}

// NewRedisReportCacheWithClient wraps an existing Redis client. Useful for
// testing or when sharing a client across components.
func NewRedisReportCacheWithClient(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

// Get loads a cached report. Returns shared.ErrNotFound on a miss.
func (c *RedisReportCache) Get(ctx context.Context, month valueobject.Month) (*valuation.MonthlyReport, error) {
	data, err := c.client.Get(ctx, reportKeyPrefix+month.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report valuation.MonthlyReport
	if err := json.Unmarshal(data, &report); err != nil {
		// A corrupt entry is treated as a miss after eviction
		c.client.Del(ctx, reportKeyPrefix+month.String())
		return nil, shared.ErrNotFound
	}
	return &report, nil
}

// Set caches a report under its month with the configured TTL
func (c *RedisReportCache) Set(ctx context.Context, report *valuation.MonthlyReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, reportKeyPrefix+report.Month.String(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate evicts the cached report for a month, if any
func (c *RedisReportCache) Invalidate(ctx context.Context, month valueobject.Month) error {
	if err := c.client.Del(ctx, reportKeyPrefix+month.String()).Err(); err != nil {
		return fmt.Errorf("failed to evict cached report: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
