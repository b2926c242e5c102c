package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/backend/access"
	"storefront/backend/catalog"
	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/upstream"
)

type CoursesController struct {
	Cfg    *config.Config
	Client *upstream.Client
}

func NewCoursesController(cfg *config.Config, client *upstream.Client) *CoursesController {
	return &CoursesController{Cfg: cfg, Client: client}
}

// ListCourses godoc
// @Summary List published courses
// @Description Returns catalog cards filtered by search and category
// @Tags catalog
// @Produce json
// @Param search query string false "Title search"
// @Param category query string false "Category"
// @Param sort query string false "popularity, price-low, price-high or rating"
// @Success 200 {object} utils.SuccessResponse
// @Router /catalog [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	if s.Snapshot().Courses == nil {
		if err := s.RefreshCatalog(c.UserContext()); err != nil && s.Shared() {
			notify(c, "error", upstream.UserMessage(err))
		}
	}
	snap := s.Snapshot()

	courses := catalog.Browse(snap.Courses, catalog.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	cards := make([]courseCard, len(courses))
	for i := range courses {
		cards[i] = newCourseCard(&courses[i], cc.Cfg.Currency)
	}

	return respond(c, s, fiber.StatusOK, fiber.Map{
		"courses":    cards,
		"total":      len(cards),
		"categories": catalog.Categories,
	})
}

// GetCourseDetails godoc
// @Summary Course details
// @Description Returns the content tree with durations, preview flags and the viewer's access
// @Tags catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /catalog/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	ctx := c.UserContext()
	id := c.Params("id")

	course, err := cc.Client.FetchCourse(ctx, id)
	if err != nil {
		cached, ok := s.Snapshot().Course(id)
		switch {
		case ok:
			notify(c, "error", upstream.UserMessage(err))
			course = cached
		case errors.Is(err, upstream.ErrApplication):
			return notFound(c, s, upstream.UserMessage(err))
		default:
			return respondError(c, s, err)
		}
	}

	snap := s.Snapshot()
	ids := snap.EnrolledIDs()
	details := courseDetails{
		courseCard:  newCourseCard(course, cc.Cfg.Currency),
		Description: course.Description,
		CreatedAt:   course.CreatedAt,
		Access:      access.Decide(snap.User, course, ids),
	}

	if details.Access.Enrolled {
		tracker := s.Tracker(*course)
		if err := tracker.Load(ctx); err != nil {
			notify(c, "error", upstream.UserMessage(err))
		} else {
			p := tracker.Snapshot()
			details.Progress = &p
		}
		details.Chapters = chapterViews(snap.User, course, ids, tracker)
	} else {
		details.Chapters = chapterViews(snap.User, course, ids, nil)
	}

	return respond(c, s, fiber.StatusOK, details)
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Free courses are enrolled at once; paid ones return the payment page
// @Tags catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /catalog/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	res, err := s.Purchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, s, err)
	}
	return respond(c, s, fiber.StatusOK, res)
}
