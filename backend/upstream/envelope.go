package upstream

import "storefront/backend/models"

// Every backend response carries success and, on failure, message. The
// payload field differs per endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type catalogPayload struct {
	Courses []models.Course `json:"courses" validate:"dive"`
}

type coursePayload struct {
	CourseData *models.Course `json:"courseData"`
	Course     *models.Course `json:"course"`
}

type userPayload struct {
	User *models.SessionUser `json:"user" validate:"required"`
}

type enrolledPayload struct {
	EnrolledCourses []models.Course `json:"enrolledCourses" validate:"dive"`
}

type purchasePayload struct {
	SessionURL string `json:"session_url" validate:"omitempty,url"`
}

type progressPayload struct {
	ProgressData *models.ProgressRecord `json:"progressData"`
}

type dashboardPayload struct {
	DashboardData *models.DashboardData `json:"dashboardData" validate:"required"`
}

type studentsPayload struct {
	EnrolledStudents []models.EnrolledStudent `json:"enrolledStudents"`
}
