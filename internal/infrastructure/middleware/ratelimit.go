package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marcos-nsantos/notes-backend/internal/infrastructure/config"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/notes-backend/internal/pkg/httputil"
)

// RateLimiter is a per-client sliding window kept in Redis, so the limit
// holds across replicas.
type RateLimiter struct {
	client         *redis.Client
	requestsPerMin int
	windowSize     time.Duration
	logger         *zap.Logger
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client:         client,
		requestsPerMin: cfg.RequestsPerMin,
		windowSize:     time.Minute,
		logger:         logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		allowed, remaining, err := rl.isAllowed(ctx, key)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requestsPerMin))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", "60")
			httputil.AbortWithError(c, apperror.TooManyRequests("too many requests, please try again later"))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) isAllowed(ctx context.Context, key string) (bool, int, error) {
	now := time.Now().UnixMilli()
	windowStart := now - rl.windowSize.Milliseconds()

	pipe := rl.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))

	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: fmt.Sprintf("%d-%s", now, uuid.NewString()),
	})

	countCmd := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, rl.windowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.requestsPerMin, err
	}

	count := int(countCmd.Val())
	remaining := max(rl.requestsPerMin-count, 0)

	return count <= rl.requestsPerMin, remaining, nil
}

// maxTrackedClients bounds LocalRateLimiter's memory; past it the
// per-client buckets start over.
const maxTrackedClients = 10000

// LocalRateLimiter is a per-client token bucket held in process memory,
// used when no Redis is configured.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	perMin   int
}

func NewLocalRateLimiter(cfg config.RateLimitConfig) *LocalRateLimiter {
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	return &LocalRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(cfg.RequestsPerMin) / 60),
		burst:    burst,
		perMin:   cfg.RequestsPerMin,
	}
}

func (rl *LocalRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.limiterFor(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMin))

		if !limiter.Allow() {
			c.Header("Retry-After", "60")
			httputil.AbortWithError(c, apperror.TooManyRequests("too many requests, please try again later"))
			return
		}

		c.Next()
	}
}

func (rl *LocalRateLimiter) limiterFor(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[client]; ok {
		return l
	}
	if len(rl.limiters) >= maxTrackedClients {
		clear(rl.limiters)
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[client] = l
	return l
}
