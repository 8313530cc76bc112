package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter is a fixed-window per-IP limiter backed by Redis, so every
// replica shares the same counters. With a nil client it is a no-op. Redis
// failures let the request through.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if rdb == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		now := time.Now()
		bucket := now.Truncate(window)
		key := rateLimitPrefix + c.ClientIP() + ":" + strconv.FormatInt(bucket.Unix(), 10)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			windowEnd := bucket.Add(window)
			c.Header("Retry-After", strconv.Itoa(int(windowEnd.Sub(now).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
