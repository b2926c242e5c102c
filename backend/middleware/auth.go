package middleware

import (
	"github.com/gofiber/fiber/v2"

	"storefront/backend/config"
	"storefront/backend/models"
	"storefront/backend/session"
	"storefront/backend/utils"
)

const (
	identityKey = "identity"
	sessionKey  = "session"
)

// Identity resolves the bearer token, if any, and attaches the viewer's
// session store. With required set, a missing or invalid token is refused;
// otherwise the request continues as anonymous.
func Identity(cfg *config.Config, sessions *session.Manager, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id *models.Identity
		if token := utils.BearerToken(c); token != "" {
			parsed, err := utils.ParseIdentity(token, cfg.IdentitySecret)
			if err != nil && required {
				return utils.Unauthorized(c, err.Error())
			}
			id = parsed
		}
		if required && !id.Present() {
			return utils.Unauthorized(c, "Please login to continue")
		}

		c.Locals(identityKey, id)
		c.Locals(sessionKey, sessions.Session(c.UserContext(), id))
		return c.Next()
	}
}

// AuthMiddleware requires a signed-in viewer.
func AuthMiddleware(cfg *config.Config, sessions *session.Manager) fiber.Handler {
	return Identity(cfg, sessions, true)
}

// EducatorMiddleware requires the educator role, from the token or granted
// during this session.
func EducatorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := CurrentIdentity(c)
		if id.Present() && id.Role == models.RoleEducator {
			return c.Next()
		}
		if s := CurrentSession(c); s != nil && s.Snapshot().IsEducator {
			return c.Next()
		}
		return utils.Forbidden(c, "Forbidden - Educator access required")
	}
}

func CurrentIdentity(c *fiber.Ctx) *models.Identity {
	id, _ := c.Locals(identityKey).(*models.Identity)
	return id
}

func CurrentSession(c *fiber.Ctx) *session.Store {
	s, _ := c.Locals(sessionKey).(*session.Store)
	return s
}
