package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voyagepal/voyagepal-api/internal/auth"
)

const userKey = "user"

// requireAuth loads the user behind an "Authorization: Bearer" token.
func requireAuth(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return auth.ErrInvalidToken
		}

		user, err := svc.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) auth.User {
	u, _ := c.Locals(userKey).(auth.User)
	return u
}
