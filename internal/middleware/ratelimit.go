package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what a Quota does when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

var errNoLimitStore = errors.New("rate limit store not configured")

// Quota is a fixed-window request budget for one named action, counted per
// signed-in user or, for anonymous callers, per remote IP.
type Quota struct {
	Name   string
	Limit  int
	Window time.Duration
	Policy FailPolicy
}

// Decision is the outcome of spending one unit of a Quota.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

func (q Quota) key(subject string) string {
	return "murmur:rl:" + q.Name + ":" + subject
}

// limitsBypassed reports whether quotas are switched off for this process.
// Only deployed environments count hits.
func limitsBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "development", "test", "stress":
		return true
	}
	return false
}

// Take spends one unit of q for subject.
func (q Quota) Take(ctx context.Context, rdb *redis.Client, subject string) (Decision, error) {
	if limitsBypassed() {
		return Decision{Allowed: true, Remaining: q.Limit}, nil
	}
	if rdb == nil {
		return Decision{}, errNoLimitStore
	}

	key := q.key(subject)
	var hits *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	}); err != nil {
		RedisErrors.WithLabelValues("ratelimit").Inc()
		return Decision{}, err
	}

	wait := ttl.Val()
	if wait < 0 {
		// New window, or a counter that lost its expiry.
		if err := rdb.PExpire(ctx, key, q.Window).Err(); err != nil {
			RedisErrors.WithLabelValues("ratelimit").Inc()
			return Decision{}, err
		}
		wait = q.Window
	}

	count := int(hits.Val())
	d := Decision{Allowed: count <= q.Limit, Remaining: max(q.Limit-count, 0)}
	if !d.Allowed {
		d.RetryAfter = wait
	}
	return d, nil
}

// Throttle enforces q on every request it guards.
func Throttle(rdb *redis.Client, q Quota) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject := "ip:" + c.IP()
		if id := UserID(c); id != 0 {
			subject = "user:" + strconv.FormatUint(uint64(id), 10)
		}

		d, err := q.Take(c.UserContext(), rdb, subject)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable",
				slog.String("quota", q.Name),
				slog.String("error", err.Error()),
			)
			if q.Policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Rate limiting unavailable",
					"code":  "UNAVAILABLE",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(q.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, try again later",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
