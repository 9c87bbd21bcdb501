package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketPerKey(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(2, time.Second)
	tb.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, tb.Acquire(ctx, "create_post"))
	require.NoError(t, tb.Acquire(ctx, "create_post"))
	assert.ErrorIs(t, tb.Acquire(ctx, "create_post"), ErrRateLimitExceeded)

	// Other keys have their own bucket.
	assert.NoError(t, tb.Acquire(ctx, "list_posts"))

	clock = clock.Add(1500 * time.Millisecond)
	assert.NoError(t, tb.Acquire(ctx, "create_post"))
	assert.ErrorIs(t, tb.Acquire(ctx, "create_post"), ErrRateLimitExceeded)

	clock = clock.Add(10 * time.Second)
	assert.NoError(t, tb.Acquire(ctx, "create_post"))
	assert.NoError(t, tb.Acquire(ctx, "create_post"))
	assert.ErrorIs(t, tb.Acquire(ctx, "create_post"), ErrRateLimitExceeded)
}

func TestTokenBucketCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewTokenBucket(1, time.Second).Acquire(ctx, "k"), context.Canceled)
}

func TestNoopRateLimiter(t *testing.T) {
	for range 100 {
		require.NoError(t, NoopRateLimiter{}.Acquire(context.Background(), "k"))
	}
}
