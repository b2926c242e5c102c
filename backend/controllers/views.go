package controllers

import (
	"time"

	"storefront/backend/access"
	"storefront/backend/catalog"
	"storefront/backend/models"
	"storefront/backend/progress"
)

type courseCard struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Thumbnail       string  `json:"thumbnail"`
	Category        string  `json:"category,omitempty"`
	Educator        string  `json:"educator"`
	Rating          int     `json:"rating"`
	RatingCount     int     `json:"ratingCount"`
	Currency        string  `json:"currency"`
	Price           float64 `json:"price"`
	Discount        float64 `json:"discount"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Free            bool    `json:"free"`
	Students        int     `json:"students"`
	Lectures        int     `json:"lectures"`
	DurationMinutes int     `json:"durationMinutes"`
	Duration        string  `json:"duration"`
}

func newCourseCard(c *models.Course, currency string) courseCard {
	minutes := catalog.CourseDurationMinutes(c)
	return courseCard{
		ID:              c.ID,
		Title:           c.Title,
		Thumbnail:       c.Thumbnail,
		Category:        c.Category,
		Educator:        c.Educator.Name,
		Rating:          catalog.AverageRating(c.Ratings),
		RatingCount:     len(c.Ratings),
		Currency:        currency,
		Price:           c.Price,
		Discount:        c.DiscountPercent(),
		DiscountedPrice: c.DiscountedPrice(),
		Free:            c.IsFree(),
		Students:        len(c.EnrolledStudents),
		Lectures:        catalog.LectureCount(c),
		DurationMinutes: minutes,
		Duration:        catalog.HumanizeMinutes(minutes),
	}
}

type lectureView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"`
	PreviewFree     bool   `json:"previewFree"`
	Locked          bool   `json:"locked"`
	URL             string `json:"url,omitempty"`
	VideoID         string `json:"videoId,omitempty"`
	Completed       bool   `json:"completed"`
}

type chapterView struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Order           int           `json:"order"`
	Lectures        int           `json:"lectures"`
	DurationMinutes int           `json:"durationMinutes"`
	Duration        string        `json:"duration"`
	Content         []lectureView `json:"content"`
}

// chapterViews renders the content tree. Video links are only included for
// lectures the viewer may watch.
func chapterViews(user *models.SessionUser, c *models.Course, enrolledIDs []string, tracker *progress.Tracker) []chapterView {
	chapters := make([]chapterView, len(c.Content))
	for i := range c.Content {
		ch := &c.Content[i]
		minutes := catalog.ChapterDurationMinutes(ch)
		view := chapterView{
			ID:              ch.ID,
			Title:           ch.Title,
			Order:           ch.Order,
			Lectures:        len(ch.Content),
			DurationMinutes: minutes,
			Duration:        catalog.HumanizeMinutes(minutes),
			Content:         make([]lectureView, len(ch.Content)),
		}
		for j := range ch.Content {
			l := &ch.Content[j]
			lv := lectureView{
				ID:              l.ID,
				Title:           l.Title,
				Order:           l.Order,
				DurationMinutes: l.Duration,
				Duration:        catalog.HumanizeMinutes(l.Duration),
				PreviewFree:     l.IsPreviewFree,
				Locked:          true,
			}
			if access.CanWatch(user, c, l, enrolledIDs) {
				lv.Locked = false
				lv.URL = l.URL
				lv.VideoID = catalog.VideoID(l.URL)
			}
			if tracker != nil {
				lv.Completed = tracker.IsCompleted(l.ID)
			}
			view.Content[j] = lv
		}
		chapters[i] = view
	}
	return chapters
}

type courseDetails struct {
	courseCard
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
	Chapters    []chapterView          `json:"chapters"`
	Access      access.Decisions       `json:"access"`
	Progress    *models.CourseProgress `json:"progress,omitempty"`
}

type playerView struct {
	courseCard
	Chapters []chapterView         `json:"chapters"`
	Progress models.CourseProgress `json:"progress"`
	MyRating int                   `json:"myRating"`
	Access   access.Decisions      `json:"access"`
}

func ratingBy(c *models.Course, userID string) int {
	for _, r := range c.Ratings {
		if r.UserID == userID {
			return r.Rating
		}
	}
	return 0
}

func educatorCourse(c *models.Course) models.EducatorCourse {
	return models.EducatorCourse{
		ID:              c.ID,
		Title:           c.Title,
		Thumbnail:       c.Thumbnail,
		Students:        len(c.EnrolledStudents),
		DiscountedPrice: c.DiscountedPrice(),
		Earnings:        catalog.Earnings(c),
		PublishedOn:     c.CreatedAt,
	}
}
