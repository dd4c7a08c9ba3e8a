// Package ratelimit throttles the question endpoint per client IP.
package ratelimit

import (
	"fmt"

	"codeberg.org/handbookqa/server/internal/errors"
	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "handbookqa:ratelimit"

// NewStore keeps counters in redis when a client is given so every replica
// shares them, and in process memory otherwise.
func NewStore(rdb *redis.Client) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: keyPrefix}), nil
	}

	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return store, nil
}

// Middleware limits requests per client IP. rate uses the "<limit>-<period>"
// format, e.g. "30-M".
func Middleware(store limiter.Store, rate string) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	return mgin.NewMiddleware(
		limiter.New(store, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "too many questions, slow down")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a broken store must not take the endpoint down
			logger.WarnErr(err, "rate limiter unavailable, letting request through", "path", c.FullPath())
			c.Next()
		}),
	), nil
}
