// Package catalog derives durations, lecture counts, ratings and earnings from
// course snapshots, and implements catalog browsing. Every function tolerates
// nil or partially populated input and degrades to zero values.
package catalog

import "storefront/backend/models"

func ChapterDurationMinutes(ch *models.Chapter) int {
	if ch == nil {
		return 0
	}
	total := 0
	for _, l := range ch.Content {
		if l.Duration > 0 {
			total += l.Duration
		}
	}
	return total
}

func CourseDurationMinutes(c *models.Course) int {
	if c == nil {
		return 0
	}
	total := 0
	for i := range c.Content {
		total += ChapterDurationMinutes(&c.Content[i])
	}
	return total
}

func LectureCount(c *models.Course) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, ch := range c.Content {
		n += len(ch.Content)
	}
	return n
}

// AverageRating is the mean rating floored to an integer. Truncation (not
// rounding) is what existing clients display, so 4.9 shows as 4.
func AverageRating(entries []models.RatingEntry) int {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += clampRating(e.Rating)
	}
	return sum / len(entries)
}

func clampRating(r int) int {
	switch {
	case r < 0:
		return 0
	case r > 5:
		return 5
	}
	return r
}

// Earnings is what a course has made so far: enrolled students times the
// current discounted price.
func Earnings(c *models.Course) float64 {
	if c == nil {
		return 0
	}
	return float64(len(c.EnrolledStudents)) * c.DiscountedPrice()
}

// FirstLecture returns the first lecture of the first chapter that has any.
func FirstLecture(c *models.Course) (*models.Lecture, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Content {
		if len(c.Content[i].Content) > 0 {
			return &c.Content[i].Content[0], true
		}
	}
	return nil, false
}
