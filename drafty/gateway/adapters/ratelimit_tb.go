package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	ports "github.com/ZanzyTHEbar/drafty-mcp/drafty/gateway/ports"
)

// ErrRateLimitExceeded is returned when a key has no tokens left.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// TokenBucket limits calls per key. Each key starts full and regains one
// token every refill interval, up to capacity.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	refill   time.Duration
	now      func() time.Time
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a limiter. capacity < 1 is treated as 1 and a
// non-positive refill as one second.
func NewTokenBucket(capacity int, refill time.Duration) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	if refill <= 0 {
		refill = time.Second
	}
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		refill:   refill,
		now:      time.Now,
	}
}

// Acquire takes a token for key without blocking.
func (tb *TokenBucket) Acquire(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastRefill: now}
		tb.buckets[key] = b
	}

	if gained := int(now.Sub(b.lastRefill) / tb.refill); gained > 0 {
		b.tokens = min(b.tokens+gained, tb.capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(gained) * tb.refill)
	}

	if b.tokens == 0 {
		return ErrRateLimitExceeded
	}
	b.tokens--
	return nil
}

// NoopRateLimiter never throttles.
type NoopRateLimiter struct{}

func (NoopRateLimiter) Acquire(context.Context, string) error { return nil }

var (
	_ ports.RateLimiter = (*TokenBucket)(nil)
	_ ports.RateLimiter = NoopRateLimiter{}
)
