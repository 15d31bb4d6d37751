package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiterRedis is a fixed window counter: one key per caller per window,
// expiring with the window.
type RateLimiterRedis struct {
	Client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimiterRedis(client *redis.Client, limit int, window time.Duration) *RateLimiterRedis {
	return &RateLimiterRedis{
		Client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow counts the request and reports whether key is still under the limit.
func (r *RateLimiterRedis) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	k := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	var incr *redis.IntCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(r.limit), nil
}
