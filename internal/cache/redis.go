// Package cache keeps the record of recent generation runs.
// Records live in Redis when configured and in process memory otherwise.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/osustats/osustats/internal/model"
)

// Cache key names and TTLs.
const (
	lastRunKey     = "osustats:run:last"
	lastSuccessKey = "osustats:run:last_success"

	// RunTTL bounds how long a run record is kept.
	RunTTL = 30 * 24 * time.Hour
)

// Cache provides Redis access methods.
type Cache struct {
	client *redis.Client
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings; one writer per /generate call is all we need.
	opt.PoolSize = 4
	opt.MinIdleConns = 1
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// SaveRun stores run as the latest run, and as the latest success when it succeeded.
func (c *Cache) SaveRun(ctx context.Context, run model.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, lastRunKey, payload, RunTTL)
	if run.Outcome == model.RunSucceeded {
		pipe.Set(ctx, lastSuccessKey, payload, RunTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}

// Status returns the latest run and latest success. Missing records are nil.
func (c *Cache) Status(ctx context.Context) (model.Status, error) {
	values, err := c.client.MGet(ctx, lastRunKey, lastSuccessKey).Result()
	if err != nil {
		return model.Status{}, fmt.Errorf("redis mget failed: %w", err)
	}

	var status model.Status
	if status.LastRun, err = decodeRun(values[0]); err != nil {
		return model.Status{}, err
	}
	if status.LastSuccess, err = decodeRun(values[1]); err != nil {
		return model.Status{}, err
	}
	return status, nil
}

func decodeRun(value any) (*model.Run, error) {
	if value == nil {
		return nil, nil
	}
	raw, ok := value.(string)
	if !ok {
		return nil, errors.New("unexpected run record type")
	}

	var run model.Run
	if err := json.Unmarshal([]byte(raw), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}
