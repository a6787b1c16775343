package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dealerhub/dealerhub/internal/phone"
)

const sendRateLimitPrefix = "rl:verify:"

// SendRateLimit caps verification sends per normalized phone within a fixed window using
// Redis counters. It is a no-op without Redis and fails open on cache errors.
func SendRateLimit(cache *redis.Client, limit int, window time.Duration, logger *slog.Logger) fiber.Handler {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Phone string `json:"phone"`
		}
		_ = c.BodyParser(&req)
		if phone.Digits(req.Phone) == "" {
			// Let the handler reject the payload.
			return c.Next()
		}

		ctx := c.UserContext()
		key := sendRateLimitPrefix + phone.Normalize(req.Phone)
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("send rate limit unavailable", slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, window)
		}
		if cnt > int64(limit) {
			if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Set(fiber.HeaderRetryAfter, formatSeconds(ttl))
			}
			return fiber.NewError(http.StatusTooManyRequests, "too many verification requests, try again later")
		}
		return c.Next()
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64((d+time.Second-1)/time.Second), 10)
}
