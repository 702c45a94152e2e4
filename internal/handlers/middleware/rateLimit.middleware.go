package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	RateLimitHeader          = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
)

// RateLimit counts requests per authenticated user, falling back to the client ip.
// A failing counter store lets the request through.
func (m *Middleware) RateLimit() fiber.Handler {
	log := m.log.Function("RateLimit")

	return func(c *fiber.Ctx) error {
		if m.rateLimiter == nil || m.rateLimiter.Limit() <= 0 {
			return c.Next()
		}

		subject := "ip:" + c.IP()
		if user := GetUser(c); user != nil {
			subject = "user:" + user.ID.String()
		}

		allowed, remaining, err := m.rateLimiter.Allow(c.UserContext(), subject)
		if err != nil {
			log.Warn("rate limit store unavailable", "subject", subject, "error", err)
		}

		c.Set(RateLimitHeader, strconv.Itoa(m.rateLimiter.Limit()))
		c.Set(RateLimitRemainingHeader, strconv.Itoa(remaining))

		if !allowed {
			log.Info("rate limit exceeded", "subject", subject)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}

		return c.Next()
	}
}
