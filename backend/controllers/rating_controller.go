package controllers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/utils"
)

type RatingsController struct {
	Cfg *config.Config
}

func NewRatingsController(cfg *config.Config) *RatingsController {
	return &RatingsController{Cfg: cfg}
}

// AddRatingRequest defines the request body for rating a course
type AddRatingRequest struct {
	Rating int `json:"rating" example:"5" minimum:"1" maximum:"5"`
}

// AddRating godoc
// @Summary Rate course
// @Description Adds or replaces the viewer's rating of an enrolled course
// @Tags ratings
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param input body AddRatingRequest true "Rating"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /player/{courseId}/rating [post]
func (rc *RatingsController) AddRating(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)

	var input AddRatingRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	courseID := c.Params("courseId")
	if err := s.Rate(c.UserContext(), courseID, input.Rating); err != nil {
		return respondError(c, s, err)
	}

	return respond(c, s, fiber.StatusOK, fiber.Map{"courseId": courseID, "rating": input.Rating})
}
