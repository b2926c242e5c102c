package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/backend/access"
	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/models"
	"storefront/backend/progress"
	"storefront/backend/session"
	"storefront/backend/upstream"
)

type ProgressController struct {
	Cfg *config.Config
}

func NewProgressController(cfg *config.Config) *ProgressController {
	return &ProgressController{Cfg: cfg}
}

// playerCourse prefers the enrolled copy of a course, which is what the
// player renders, and falls back to the catalog.
func playerCourse(snap session.Snapshot, id string) (*models.Course, bool) {
	if c, ok := snap.EnrolledCourse(id); ok {
		return c, true
	}
	return snap.Course(id)
}

// GetPlayer godoc
// @Summary Course player
// @Description Returns the content tree with video links and completion for an enrolled viewer
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /player/{courseId} [get]
func (pc *ProgressController) GetPlayer(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	snap := s.Snapshot()
	course, ok := playerCourse(snap, c.Params("courseId"))
	if !ok {
		return notFound(c, s, "Course not found")
	}
	ids := snap.EnrolledIDs()
	if !access.IsEnrolled(snap.User, course, ids) {
		return respondError(c, s, access.ErrNotEnrolled)
	}

	tracker := s.Tracker(*course)
	if err := tracker.Load(c.UserContext()); err != nil {
		notify(c, "error", upstream.UserMessage(err))
	}

	view := playerView{
		courseCard: newCourseCard(course, pc.Cfg.Currency),
		Chapters:   chapterViews(snap.User, course, ids, tracker),
		Progress:   tracker.Snapshot(),
		MyRating:   ratingBy(course, snap.User.ID),
		Access:     access.Decide(snap.User, course, ids),
	}
	return respond(c, s, fiber.StatusOK, view)
}

// MarkComplete godoc
// @Summary Mark lecture completed
// @Description Records a completed lecture; the response carries the reconciled progress
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Param lectureId path string true "Lecture ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /player/{courseId}/lectures/{lectureId}/complete [post]
func (pc *ProgressController) MarkComplete(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	ctx := c.UserContext()
	snap := s.Snapshot()
	course, ok := playerCourse(snap, c.Params("courseId"))
	if !ok {
		return notFound(c, s, "Course not found")
	}
	lectureID := c.Params("lectureId")
	lecture, _ := course.FindLecture(lectureID)
	enrolled := access.CanMarkComplete(snap.User, course, lecture, snap.EnrolledIDs())

	tracker := s.Tracker(*course)
	if enrolled {
		if err := tracker.Load(ctx); err != nil {
			notify(c, "error", upstream.UserMessage(err))
		}
	}

	if err := tracker.MarkComplete(ctx, lectureID, enrolled); err != nil {
		if !errors.Is(err, access.ErrNotEnrolled) {
			notify(c, "error", upstream.UserMessage(err))
		}
		return respondError(c, s, err)
	}
	if err := tracker.Err(); err != nil {
		notify(c, "error", upstream.UserMessage(err))
	}
	confirmed := tracker.Phase(lectureID) == progress.Confirmed
	if confirmed {
		notify(c, "success", "Lecture marked as completed")
	} else {
		notify(c, "info", "Progress was not recorded, please try again")
	}
	_ = s.RefreshEnrollments(ctx)

	return respond(c, s, fiber.StatusOK, fiber.Map{
		"progress":  tracker.Snapshot(),
		"confirmed": confirmed,
	})
}
