package models

// ProgressRecord mirrors the backend's per (user, course) completion record.
// It is never computed authoritatively here.
type ProgressRecord struct {
	CourseID         string   `json:"courseId"`
	UserID           string   `json:"userId,omitempty"`
	Completed        bool     `json:"completed"`
	LectureCompleted []string `json:"lectureCompleted"`
}

// CourseProgress is the derived view of a ProgressRecord against a course's
// content tree.
type CourseProgress struct {
	CourseID          string          `json:"courseId"`
	State             string          `json:"state"`
	CompletedLectures []string        `json:"completedLectures"`
	CompletedCount    int             `json:"completedCount"`
	TotalLectures     int             `json:"totalLectures"`
	CompletionPercent float64         `json:"completionPercent"`
	IsComplete        bool            `json:"isComplete"`
	Lectures          map[string]bool `json:"lectures,omitempty"`
}

// EnrollmentProgress is one row of the enrollments overview.
type EnrollmentProgress struct {
	CourseID          string  `json:"courseId"`
	Title             string  `json:"title"`
	Educator          string  `json:"educator,omitempty"`
	Thumbnail         string  `json:"thumbnail,omitempty"`
	DurationMinutes   int     `json:"durationMinutes"`
	Duration          string  `json:"duration"`
	TotalLectures     int     `json:"totalLectures"`
	CompletedLectures int     `json:"completedLectures"`
	CompletionPercent float64 `json:"completionPercent"`
	Completed         bool    `json:"completed"`
	Failed            bool    `json:"failed,omitempty"`
}
