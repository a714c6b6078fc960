package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mgrozdek22/TBP-nail-app/internal/config"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
)

// limiterScript refills and takes one token atomically. It returns
// {allowed, remaining, retry_after_ms}.
var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// bucketReply is the decoded reply of limiterScript.
type bucketReply struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

func parseBucketReply(v interface{}) (bucketReply, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 3 {
		return bucketReply{}, false
	}
	n := make([]int64, 3)
	for i, x := range arr {
		if n[i], ok = x.(int64); !ok {
			return bucketReply{}, false
		}
	}
	return bucketReply{allowed: n[0] == 1, remaining: n[1], retry: time.Duration(n[2]) * time.Millisecond}, true
}

// retryAfter rounds up to whole seconds for the Retry-After header.
func (b bucketReply) retryAfter() int {
	if b.retry <= 0 {
		return 0
	}
	return int(math.Ceil(b.retry.Seconds()))
}

// NewTokenBucket limits submissions, votes and moderation actions. Without
// Redis it is a no-op, and Redis errors let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log *logger.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttlSeconds := int64(cfg.TTL / time.Second)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			res, err := limiterScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(), ttlSeconds).Result()
			if err != nil {
				log.Warn("ratelimit: redis error", "key", key, "error", err)
				return next(c)
			}
			reply, ok := parseBucketReply(res)
			if !ok {
				log.Warn("ratelimit: unexpected script result", "key", key, "result", fmt.Sprint(res))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(reply.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if !reply.allowed {
				secs := reply.retryAfter()
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Debug("ratelimit: blocked", "key", key, "retry_after", secs)
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded", "retry_after": secs})
			}
			return next(c)
		}
	}
}

// buildRateKey scopes the bucket. Strategies: "user_route" (default
// config), "user", "ip"; anything else combines ip, user and route.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := rateIdentity(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	case "user":
		parts = append(parts, "user", uid)
	case "ip":
		parts = append(parts, "ip", ip)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
