//go:build integration

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/redis"
	"github.com/phrazzld/scry-study/internal/service/preview"
)

// RedisURLEnv names the variable holding the integration Redis URL.
const RedisURLEnv = "SCRY_TEST_REDIS_URL"

func openCache(t *testing.T, ttl time.Duration) *redis.Cache {
	t.Helper()
	url := os.Getenv(RedisURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping integration test", RedisURLEnv)
	}

	cache, err := redis.Open(context.Background(), url, ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openCache(t, time.Minute)
	ctx := context.Background()
	doc := int64(4)

	batch := &domain.PreviewBatch{
		Token:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Items: []domain.PreviewItem{{
			Question:   "2+2?",
			Answer:     "4",
			DocumentID: &doc,
			Source:     domain.PreviewSourceDocs,
			IsDup:      true,
		}},
	}
	require.NoError(t, cache.Put(ctx, batch))

	got, err := cache.Pop(ctx, batch.Token)
	require.NoError(t, err)
	assert.Equal(t, batch.Items, got.Items)
	assert.True(t, batch.CreatedAt.Equal(got.CreatedAt))

	_, err = cache.Pop(ctx, batch.Token)
	assert.ErrorIs(t, err, preview.ErrExpiredOrUnknownToken)
}

func TestCacheExpiry(t *testing.T) {
	cache := openCache(t, time.Second)
	ctx := context.Background()

	token := uuid.NewString()
	require.NoError(t, cache.Put(ctx, &domain.PreviewBatch{Token: token, CreatedAt: time.Now()}))

	time.Sleep(1500 * time.Millisecond)
	_, err := cache.Pop(ctx, token)
	assert.ErrorIs(t, err, preview.ErrExpiredOrUnknownToken)
}
