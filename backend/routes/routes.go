package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/backend/config"
	"storefront/backend/controllers"
	"storefront/backend/middleware"
	"storefront/backend/session"
	"storefront/backend/upstream"
)

func SetupRoutes(app *fiber.App, client *upstream.Client, sessions *session.Manager, cfg *config.Config) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		fetched := sessions.Catalog().FetchedAt()
		return c.JSON(fiber.Map{
			"status":           "ok",
			"catalogCourses":   len(sessions.Catalog().Courses()),
			"catalogFetchedAt": fetched.Format(time.RFC3339),
		})
	})

	// Middleware
	optionalAuth := middleware.Identity(cfg, sessions, false)
	authMiddleware := middleware.AuthMiddleware(cfg, sessions)
	educatorMiddleware := middleware.EducatorMiddleware()

	// Catalog routes
	coursesController := controllers.NewCoursesController(cfg, client)
	catalog := app.Group("/api/catalog")
	catalog.Get("/", optionalAuth, coursesController.ListCourses)
	catalog.Get("/:id", optionalAuth, coursesController.GetCourseDetails)
	catalog.Post("/:id/enroll", authMiddleware, coursesController.Enroll)

	// Auth routes
	authController := controllers.NewAuthController(cfg, sessions)
	app.Post("/api/auth/logout", authMiddleware, authController.Logout)

	// User routes
	userController := controllers.NewUserController(cfg)
	me := app.Group("/api/me", authMiddleware)
	me.Get("/", userController.GetProfile)
	me.Post("/refresh", userController.Refresh)
	me.Get("/enrollments", userController.GetEnrollments)

	// Player routes
	progressController := controllers.NewProgressController(cfg)
	ratingsController := controllers.NewRatingsController(cfg)
	player := app.Group("/api/player", authMiddleware)
	player.Get("/:courseId", progressController.GetPlayer)
	player.Post("/:courseId/lectures/:lectureId/complete", progressController.MarkComplete)
	player.Post("/:courseId/rating", ratingsController.AddRating)

	// Educator routes
	analyticsController := controllers.NewAnalyticsController(cfg, client)
	educator := app.Group("/api/educator", authMiddleware)
	educator.Post("/role", authController.BecomeEducator)
	educator.Get("/courses", educatorMiddleware, analyticsController.GetEducatorCourses)
	educator.Post("/courses", educatorMiddleware, analyticsController.CreateCourse)
	educator.Get("/dashboard", educatorMiddleware, analyticsController.GetDashboard)
	educator.Get("/students", educatorMiddleware, analyticsController.GetEnrolledStudents)
}
