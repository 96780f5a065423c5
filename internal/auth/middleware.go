package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/services"
)

// Middleware verifies the bearer token and injects the actor into the
// request context so every service call downstream sees who is acting.
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		actor := claims.Actor()
		c.Locals("actor", actor)
		c.SetUserContext(services.WithActor(c.UserContext(), actor))
		return c.Next()
	}
}

// RequireRole gates a route to the given roles. Runs after Middleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals("actor").(domain.Actor)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}
