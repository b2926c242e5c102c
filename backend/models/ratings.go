package models

// RatingEntry is one user's 1–5 rating of a course. The backend keeps at most
// one entry per user (last write wins).
type RatingEntry struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

type RatingInput struct {
	CourseID string `json:"courseId" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
}
