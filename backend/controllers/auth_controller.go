package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/session"
)

type AuthController struct {
	Cfg      *config.Config
	Sessions *session.Manager
}

func NewAuthController(cfg *config.Config, sessions *session.Manager) *AuthController {
	return &AuthController{Cfg: cfg, Sessions: sessions}
}

// BecomeEducator godoc
// @Summary Become an educator
// @Description Asks the backend to grant the educator role to the signed in user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /educator/role [post]
func (ac *AuthController) BecomeEducator(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	if err := s.BecomeEducator(c.UserContext()); err != nil {
		return respondError(c, s, err)
	}
	return respond(c, s, fiber.StatusOK, fiber.Map{"isEducator": true})
}

// Logout godoc
// @Summary Logout
// @Description Drops the cached session of the signed in user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	if id := middleware.CurrentIdentity(c); id.Present() {
		ac.Sessions.Forget(id.Subject)
	}
	s.SetIdentity(c.UserContext(), nil)
	return respond(c, s, fiber.StatusOK, nil, "Logged out")
}
