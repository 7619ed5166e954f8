// Package redis provides a preview.Cache backed by Redis, for deployments
// that run more than one server process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service/preview"
)

// KeyPrefix namespaces preview batches in the Redis keyspace.
const KeyPrefix = "scry:preview:"

// Cache implements preview.Cache. Redis expires entries itself, and GETDEL
// makes Pop atomic across processes.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ preview.Cache = (*Cache)(nil)

// Open parses url, connects and pings the server.
func Open(ctx context.Context, url string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewCache(client, ttl, logger), nil
}

// NewCache wraps an existing client. A ttl of zero or less means
// preview.DefaultTTL.
func NewCache(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if client == nil {
		panic("client cannot be nil")
	}
	if ttl <= 0 {
		ttl = preview.DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_preview_cache")),
	}
}

// Put implements preview.Cache.
func (c *Cache) Put(ctx context.Context, batch *domain.PreviewBatch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode preview batch: %w", err)
	}
	if err := c.client.Set(ctx, KeyPrefix+batch.Token, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store preview batch: %w", err)
	}
	return nil
}

// Pop implements preview.Cache.
func (c *Cache) Pop(ctx context.Context, token string) (*domain.PreviewBatch, error) {
	payload, err := c.client.GetDel(ctx, KeyPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, preview.ErrExpiredOrUnknownToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preview batch: %w", err)
	}

	var batch domain.PreviewBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		c.logger.WarnContext(ctx, "discarding unreadable preview batch",
			slog.String("error", err.Error()))
		return nil, preview.ErrExpiredOrUnknownToken
	}
	return &batch, nil
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
