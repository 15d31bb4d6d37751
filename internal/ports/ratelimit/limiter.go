package ratelimit

import "context"

// Limiter decides whether key may perform one more request in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
