package middleware

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates the catalog and gamification settings routes. It must run after
// RequireAuth. Every admin write is logged with its actor before reaching the handler.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAdmin")

		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.IsAdmin {
			log.Warn("admin route refused", "userID", user.ID, "method", c.Method(), "path", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		if c.Method() != fiber.MethodGet {
			log.Info("admin write", "actorID", user.ID, "method", c.Method(), "path", c.Path())
		}

		return c.Next()
	}
}
