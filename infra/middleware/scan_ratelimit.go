package middleware

import (
	"fmt"
	"sync"
	"time"

	"scan_server/core/domain"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter provides per-caller rate limiting. Authenticated requests are
// keyed by user id, anonymous ones by IP.
type RateLimiter struct {
	requests map[string]*requestInfo
	mu       sync.RWMutex
	window   time.Duration

	// Per-tier request limits; tiers missing from the map use the free limit.
	limits map[domain.Tier]int
}

type requestInfo struct {
	count     int
	expiresAt time.Time
}

// DefaultTierLimits reflects the subscription plans: heavier scanners pay
// for more headroom.
func DefaultTierLimits() map[domain.Tier]int {
	return map[domain.Tier]int{
		domain.TierFree: 60,
		domain.TierPlus: 300,
		domain.TierPro:  1000,
	}
}

func NewRateLimiter(limits map[domain.Tier]int, window time.Duration) *RateLimiter {
	if limits == nil {
		limits = DefaultTierLimits()
	}
	rl := &RateLimiter{
		requests: make(map[string]*requestInfo),
		limits:   limits,
		window:   window,
	}

	// Cleanup goroutine
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			rl.cleanup()
		}
	}()

	return rl
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, info := range rl.requests {
		if now.After(info.expiresAt) {
			delete(rl.requests, key)
		}
	}
}

func (rl *RateLimiter) limitFor(tier domain.Tier) int {
	if limit, ok := rl.limits[tier]; ok {
		return limit
	}
	return rl.limits[domain.TierFree]
}

func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		tier := domain.TierFree
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			key = "user:" + userID
			if t, ok := c.Locals("tier").(domain.Tier); ok {
				tier = t
			}
		}
		limit := rl.limitFor(tier)

		rl.mu.Lock()
		info, exists := rl.requests[key]
		now := time.Now()

		if !exists || now.After(info.expiresAt) {
			info = &requestInfo{
				count:     1,
				expiresAt: now.Add(rl.window),
			}
			rl.requests[key] = info
			rl.mu.Unlock()
			setRateLimitHeaders(c, limit, limit-1, info)
			return c.Next()
		}

		remaining := limit - info.count
		if info.count >= limit {
			rl.mu.Unlock()
			setRateLimitHeaders(c, limit, 0, info)
			return c.Status(429).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": int(info.expiresAt.Sub(now).Seconds()),
			})
		}

		info.count++
		rl.mu.Unlock()

		setRateLimitHeaders(c, limit, remaining-1, info)
		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, limit, remaining int, info *requestInfo) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	if info != nil {
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.expiresAt.Unix()))
	}
}
