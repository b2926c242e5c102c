package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/session"
)

type UserController struct {
	Cfg *config.Config
}

func NewUserController(cfg *config.Config) *UserController {
	return &UserController{Cfg: cfg}
}

func profile(s *session.Store) fiber.Map {
	snap := s.Snapshot()
	return fiber.Map{
		"user":            snap.User,
		"isEducator":      snap.IsEducator,
		"enrolledCourses": snap.EnrolledIDs(),
	}
}

// GetProfile godoc
// @Summary Get session user
// @Description Returns the signed in user, the educator flag and enrolled course ids
// @Tags user
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /me [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	return respond(c, s, fiber.StatusOK, profile(s))
}

// Refresh godoc
// @Summary Refresh session data
// @Description Reloads profile, enrollments and catalog; failures keep the previous data
// @Tags user
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /me/refresh [post]
func (uc *UserController) Refresh(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	_ = s.Refresh(c.UserContext())
	return respond(c, s, fiber.StatusOK, profile(s))
}

// GetEnrollments godoc
// @Summary My enrollments
// @Description Returns every enrolled course with its progress, most recent first
// @Tags user
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /me/enrollments [get]
func (uc *UserController) GetEnrollments(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	rows := s.Overview(c.UserContext())
	return respond(c, s, fiber.StatusOK, fiber.Map{"enrollments": rows})
}
