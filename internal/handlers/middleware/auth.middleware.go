package middleware

import (
	"context"
	"restocoach/internal/models"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth resolves "Authorization: Bearer <jwt>" to an active user, stored both in
// fiber locals and on the user context. Every failure is a 401 with a generic message.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Debug("missing or malformed authorization header", "path", c.Path())
			return unauthorized(c, "Authorization header required")
		}

		userID, err := m.tokens.Parse(token)
		if err != nil {
			log.Info("token rejected", "error", err.Error())
			return unauthorized(c, "Invalid token")
		}

		user, err := m.users.GetActiveUser(c.UserContext(), userID)
		if err != nil {
			log.Info("token names no active user", "userID", userID, "error", err.Error())
			return unauthorized(c, "Invalid token")
		}

		c.Locals(UserKeyFiber, user)
		c.SetUserContext(context.WithValue(c.UserContext(), UserKey, user))

		return c.Next()
	}
}

// bearerToken extracts the token from an Authorization header, matching the scheme
// case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

func GetUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKeyFiber).(*models.User)
	return user
}
