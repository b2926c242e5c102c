package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"storefront/backend/authoring"
	"storefront/backend/config"
	"storefront/backend/middleware"
	"storefront/backend/models"
	"storefront/backend/upstream"
	"storefront/backend/utils"
)

type AnalyticsController struct {
	Cfg    *config.Config
	Client *upstream.Client
}

func NewAnalyticsController(cfg *config.Config, client *upstream.Client) *AnalyticsController {
	return &AnalyticsController{Cfg: cfg, Client: client}
}

// GetDashboard возвращает сводку преподавателя
// @Summary Educator dashboard
// @Description Total earnings, number of courses and latest enrollments
// @Tags educator
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /educator/dashboard [get]
func (ac *AnalyticsController) GetDashboard(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	data, err := ac.Client.FetchDashboard(c.UserContext(), s.Token())
	if err != nil {
		notify(c, "error", upstream.UserMessage(err))
		return respondError(c, s, err)
	}
	return respond(c, s, fiber.StatusOK, fiber.Map{
		"currency":             ac.Cfg.Currency,
		"totalEarnings":        data.TotalEarnings,
		"totalCourses":         data.TotalCourses,
		"enrolledStudentsData": data.EnrolledStudentsData,
	})
}

// GetEducatorCourses возвращает курсы преподавателя
// @Summary Educator courses
// @Description The educator's courses with students and earnings
// @Tags educator
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /educator/courses [get]
func (ac *AnalyticsController) GetEducatorCourses(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	courses, err := ac.Client.FetchEducatorCourses(c.UserContext(), s.Token())
	if err != nil {
		notify(c, "error", upstream.UserMessage(err))
		return respondError(c, s, err)
	}

	rows := make([]models.EducatorCourse, len(courses))
	var total float64
	for i := range courses {
		rows[i] = educatorCourse(&courses[i])
		total += rows[i].Earnings
	}
	return respond(c, s, fiber.StatusOK, fiber.Map{
		"currency":      ac.Cfg.Currency,
		"courses":       rows,
		"totalEarnings": total,
	})
}

// GetEnrolledStudents возвращает список студентов
// @Summary Enrolled students
// @Description Students enrolled in the educator's courses, most recent first
// @Tags educator
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /educator/students [get]
func (ac *AnalyticsController) GetEnrolledStudents(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	students, err := ac.Client.FetchEnrolledStudents(c.UserContext(), s.Token())
	if err != nil {
		notify(c, "error", upstream.UserMessage(err))
		return respondError(c, s, err)
	}
	return respond(c, s, fiber.StatusOK, fiber.Map{"students": students})
}

// CreateCourse godoc
// @Summary Create course
// @Description Validates the course form and forwards it with its thumbnail
// @Tags educator
// @Accept multipart/form-data
// @Produce json
// @Param courseData formData string true "Course form as JSON"
// @Param image formData file true "Thumbnail"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /educator/courses [post]
func (ac *AnalyticsController) CreateCourse(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)

	var form authoring.Form
	if err := json.Unmarshal([]byte(c.FormValue("courseData")), &form); err != nil {
		return utils.BadRequest(c, "Invalid course data")
	}
	draft, err := form.Draft()
	if err != nil {
		return respondError(c, s, err)
	}
	course, err := draft.Build()
	if err != nil {
		return respondError(c, s, err)
	}

	header, err := c.FormFile("image")
	if err != nil {
		return utils.BadRequest(c, "Thumbnail Not Selected")
	}
	file, err := header.Open()
	if err != nil {
		return utils.BadRequest(c, "Thumbnail Not Selected")
	}
	defer file.Close()

	if err := ac.Client.AddCourse(c.UserContext(), s.Token(), course, file, header.Filename); err != nil {
		notify(c, "error", upstream.UserMessage(err))
		return respondError(c, s, err)
	}
	notify(c, "success", "Course Added")
	_ = s.RefreshCatalog(c.UserContext())

	return respond(c, s, fiber.StatusCreated, fiber.Map{
		"title":    course.Title,
		"chapters": len(course.Content),
	})
}
