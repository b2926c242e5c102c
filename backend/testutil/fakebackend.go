// Package testutil provides an in-process stand-in for the learning backend,
// speaking the same envelope and routes, for use in tests.
package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"

	"storefront/backend/models"
)

type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	courses  []models.Course
	users    map[string]*models.SessionUser // by token
	enrolled map[string][]string            // user id -> course ids, oldest first
	progress map[string]map[string][]string // user id -> course id -> lectures
	failures map[string]string              // path -> message
	down     map[string]bool                // path -> 503 without envelope
	calls    map[string]int
	uploads  []models.Course
	dropping bool // acknowledge progress updates without recording them
}

func NewBackend() *Backend {
	b := &Backend{
		users:    map[string]*models.SessionUser{},
		enrolled: map[string][]string{},
		progress: map[string]map[string][]string{},
		failures: map[string]string{},
		down:     map[string]bool{},
		calls:    map[string]int{},
	}
	b.Server = httptest.NewServer(adaptor.FiberApp(b.app()))
	return b
}

func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) Close() { b.Server.Close() }

func (b *Backend) AddCourse(c models.Course) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.courses = append(b.courses, c)
}

func (b *Backend) AddUser(token string, u models.SessionUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[token] = &u
}

// Enroll records an enrollment the way a confirmed payment would.
func (b *Backend) Enroll(userID, courseID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enroll(userID, courseID)
}

func (b *Backend) SetProgress(userID, courseID string, lectures ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.progress[userID] == nil {
		b.progress[userID] = map[string][]string{}
	}
	b.progress[userID][courseID] = lectures
}

// Fail makes path answer with success:false and message until cleared with "".
func (b *Backend) Fail(path, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if message == "" {
		delete(b.failures, path)
		return
	}
	b.failures[path] = message
}

// DropUpdates makes progress updates succeed without being recorded, so the
// next progress read disagrees with the write.
func (b *Backend) DropUpdates(drop bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropping = drop
}

// Down makes path answer 503 with a plain text body.
func (b *Backend) Down(path string, down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down[path] = down
}

func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *Backend) Uploads() []models.Course {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Course(nil), b.uploads...)
}

func (b *Backend) enroll(userID, courseID string) {
	for _, id := range b.enrolled[userID] {
		if id == courseID {
			return
		}
	}
	b.enrolled[userID] = append(b.enrolled[userID], courseID)
	for i := range b.courses {
		if b.courses[i].ID == courseID {
			b.courses[i].EnrolledStudents = append(b.courses[i].EnrolledStudents, userID)
		}
	}
	if u := b.userByID(userID); u != nil {
		u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	}
}

func (b *Backend) userByID(id string) *models.SessionUser {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (b *Backend) course(id string) *models.Course {
	for i := range b.courses {
		if b.courses[i].ID == id {
			return &b.courses[i]
		}
	}
	return nil
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func ok(c *fiber.Ctx, payload fiber.Map) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	payload["success"] = true
	return c.JSON(payload)
}

func (b *Backend) app() *fiber.App {
	app := fiber.New()

	// bookkeeping and injected failures
	app.Use(func(c *fiber.Ctx) error {
		// c.Path is backed by the request buffer; keys must outlive it
		path := utils.CopyString(c.Path())
		b.mu.Lock()
		b.calls[path]++
		msg, failing := b.failures[path]
		down := b.down[path]
		b.mu.Unlock()

		if down {
			return c.Status(fiber.StatusServiceUnavailable).SendString("service unavailable")
		}
		if failing {
			return fail(c, fiber.StatusOK, msg)
		}
		return c.Next()
	})

	app.Get("/api/course/all", func(c *fiber.Ctx) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		return ok(c, fiber.Map{"courses": b.courses})
	})

	app.Get("/api/course/:id", func(c *fiber.Ctx) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		id, err := url.PathUnescape(c.Params("id"))
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid course id")
		}
		course := b.course(id)
		if course == nil {
			return fail(c, fiber.StatusOK, "Course not found")
		}
		return ok(c, fiber.Map{"courseData": course})
	})

	user := app.Group("/api/user", b.authenticate)

	user.Get("/data", func(c *fiber.Ctx) error {
		b.mu.Lock()
		u := *c.Locals("user").(*models.SessionUser)
		b.mu.Unlock()
		return ok(c, fiber.Map{"user": u})
	})

	user.Get("/enrolled-courses", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		b.mu.Lock()
		defer b.mu.Unlock()
		list := []models.Course{}
		for _, id := range b.enrolled[u.ID] {
			if course := b.course(id); course != nil {
				list = append(list, *course)
			}
		}
		return ok(c, fiber.Map{"enrolledCourses": list})
	})

	user.Post("/purchase", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		var in struct {
			CourseID string `json:"courseId"`
		}
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		course := b.course(in.CourseID)
		if course == nil {
			return fail(c, fiber.StatusOK, "Course not found")
		}
		if course.IsFree() {
			b.enroll(u.ID, course.ID)
			return ok(c, fiber.Map{"message": "Enrolled"})
		}
		return ok(c, fiber.Map{"session_url": "https://checkout.example.com/session/" + course.ID})
	})

	user.Post("/add-rating", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		var in models.RatingInput
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
		}
		if in.Rating < 1 || in.Rating > 5 {
			return fail(c, fiber.StatusOK, "Invalid Details")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		course := b.course(in.CourseID)
		if course == nil {
			return fail(c, fiber.StatusOK, "Course not found")
		}
		for i, r := range course.Ratings {
			if r.UserID == u.ID {
				course.Ratings[i].Rating = in.Rating
				return ok(c, fiber.Map{"message": "Rating added"})
			}
		}
		course.Ratings = append(course.Ratings, models.RatingEntry{UserID: u.ID, Rating: in.Rating})
		return ok(c, fiber.Map{"message": "Rating added"})
	})

	user.Post("/update-course-progress", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		var in struct {
			CourseID  string `json:"courseId"`
			LectureID string `json:"lectureId"`
		}
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.progress[u.ID] == nil {
			b.progress[u.ID] = map[string][]string{}
		}
		for _, id := range b.progress[u.ID][in.CourseID] {
			if id == in.LectureID {
				return ok(c, fiber.Map{"message": "Lecture Already Completed"})
			}
		}
		if b.dropping {
			return ok(c, fiber.Map{"message": "Progress Updated"})
		}
		b.progress[u.ID][in.CourseID] = append(b.progress[u.ID][in.CourseID], in.LectureID)
		return ok(c, fiber.Map{"message": "Progress Updated"})
	})

	user.Post("/get-course-progress", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		var in struct {
			CourseID string `json:"courseId"`
		}
		if err := c.BodyParser(&in); err != nil {
			return fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		lectures, found := b.progress[u.ID][in.CourseID]
		if !found {
			return ok(c, fiber.Map{"progressData": nil})
		}
		return ok(c, fiber.Map{"progressData": models.ProgressRecord{
			CourseID:         in.CourseID,
			UserID:           u.ID,
			LectureCompleted: append([]string{}, lectures...),
		}})
	})

	educator := app.Group("/api/educator", b.authenticate)

	educator.Get("/update-role", func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		b.mu.Lock()
		u.Role = models.RoleEducator
		b.mu.Unlock()
		return ok(c, fiber.Map{"message": "You can publish a course now"})
	})

	educator.Post("/add-course", b.requireEducator, func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		if _, err := c.FormFile("courseThumbnail"); err != nil {
			return fail(c, fiber.StatusOK, "Thumbnail Not Attached")
		}
		var course models.Course
		if err := json.Unmarshal([]byte(c.FormValue("courseData")), &course); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid course data")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		course.ID = "course_" + strings.ToLower(strings.ReplaceAll(course.Title, " ", "_"))
		course.Educator = models.EducatorRef{ID: u.ID, Name: u.Name}
		b.uploads = append(b.uploads, course)
		b.courses = append(b.courses, course)
		return ok(c, fiber.Map{"message": "Course Added"})
	})

	educator.Get("/courses", b.requireEducator, func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		b.mu.Lock()
		defer b.mu.Unlock()
		mine := []models.Course{}
		for _, course := range b.courses {
			if course.Educator.ID == u.ID {
				mine = append(mine, course)
			}
		}
		return ok(c, fiber.Map{"courses": mine})
	})

	educator.Get("/dashboard", b.requireEducator, func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		b.mu.Lock()
		defer b.mu.Unlock()
		data := models.DashboardData{EnrolledStudentsData: []models.DashboardEnrollment{}}
		for _, course := range b.courses {
			if course.Educator.ID != u.ID {
				continue
			}
			data.TotalCourses++
			data.TotalEarnings += float64(len(course.EnrolledStudents)) * course.DiscountedPrice()
			for _, sid := range course.EnrolledStudents {
				data.EnrolledStudentsData = append(data.EnrolledStudentsData, models.DashboardEnrollment{
					CourseTitle: course.Title,
					Student:     models.StudentRef{ID: sid},
				})
			}
		}
		return ok(c, fiber.Map{"dashboardData": data})
	})

	educator.Get("/enrolled-students", b.requireEducator, func(c *fiber.Ctx) error {
		u := c.Locals("user").(*models.SessionUser)
		b.mu.Lock()
		defer b.mu.Unlock()
		roster := []models.EnrolledStudent{}
		for _, course := range b.courses {
			if course.Educator.ID != u.ID {
				continue
			}
			for _, sid := range course.EnrolledStudents {
				roster = append(roster, models.EnrolledStudent{
					Student:     models.StudentRef{ID: sid},
					CourseTitle: course.Title,
				})
			}
		}
		return ok(c, fiber.Map{"enrolledStudents": roster})
	})

	return app
}

func (b *Backend) authenticate(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	b.mu.Lock()
	u := b.users[token]
	b.mu.Unlock()
	if u == nil {
		return fail(c, fiber.StatusUnauthorized, "Not Authorized Login Again")
	}
	c.Locals("user", u)
	return c.Next()
}

func (b *Backend) requireEducator(c *fiber.Ctx) error {
	u := c.Locals("user").(*models.SessionUser)
	b.mu.Lock()
	educator := u.IsEducator()
	b.mu.Unlock()
	if !educator {
		return fail(c, fiber.StatusForbidden, "Unauthorized Access")
	}
	return c.Next()
}
