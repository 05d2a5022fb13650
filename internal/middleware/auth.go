package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/jewa/internal/config"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/utils"
)

const sessionContextKey = "currentSession"

// AuthMiddleware validates JWT tokens and loads the resident's session into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		sess, err := utils.ParseToken(cfg.JWTSecret, strings.TrimSpace(parts[1]))
		if err != nil || !sess.Valid() {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(sessionContextKey, sess)
		return c.Next()
	}
}

// GetSession extracts the authenticated resident's session from context.
func GetSession(c *fiber.Ctx) (models.Session, bool) {
	sess, ok := c.Locals(sessionContextKey).(models.Session)
	return sess, ok && sess.Valid()
}
