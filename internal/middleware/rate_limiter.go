package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimiter limits requests per caller with a rate such as "20-M". With
// a redis client the counters are shared across instances; without one they
// live in process memory.
func NewRateLimiter(rateStr, routeID string, rdb *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", rateStr, err)
	}

	opts := limiter.StoreOptions{
		Prefix:          "rate_limiter:" + routeID,
		MaxRetry:        3,
		CleanUpInterval: rate.Period,
	}

	var store limiter.Store
	if rdb != nil {
		store, err = redisstore.NewStoreWithOptions(rdb, opts)
		if err != nil {
			return nil, fmt.Errorf("rate limit store for %s: %w", routeID, err)
		}
	} else {
		store = memory.NewStoreWithOptions(opts)
	}

	return ginmiddleware.NewMiddleware(
		limiter.New(store, rate),
		ginmiddleware.WithKeyGetter(callerKey),
	), nil
}

// callerKey buckets authenticated callers by user and everyone else by IP.
func callerKey(c *gin.Context) string {
	if req, ok := RequesterFrom(c); ok {
		return "user:" + strconv.FormatUint(uint64(req.UserID), 10)
	}
	return "ip:" + c.ClientIP()
}
