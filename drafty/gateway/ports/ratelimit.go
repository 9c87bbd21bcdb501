package gatewayports

import "context"

// RateLimiter throttles outbound calls per key (one key per tool).
type RateLimiter interface {
	Acquire(ctx context.Context, key string) error
}
