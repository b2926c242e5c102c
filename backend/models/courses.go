package models

import (
	"encoding/json"
	"math"
	"time"
)

type Course struct {
	ID               string        `json:"_id" validate:"required"`
	Title            string        `json:"courseTitle" validate:"required"`
	Description      string        `json:"courseDescription"`
	Price            float64       `json:"coursePrice" validate:"gte=0"`
	Discount         float64       `json:"discount"`
	Thumbnail        string        `json:"courseThumbnail"`
	Category         string        `json:"category,omitempty"`
	Content          []Chapter     `json:"courseContent" validate:"dive"`
	Ratings          []RatingEntry `json:"courseRatings"`
	EnrolledStudents []string      `json:"enrolledStudents"`
	Educator         EducatorRef   `json:"educator"`
	CreatedAt        time.Time     `json:"createdAt"`
	IsPublished      bool          `json:"isPublished"`
}

type Chapter struct {
	ID      string    `json:"chapterId" validate:"required"`
	Order   int       `json:"chapterOrder"`
	Title   string    `json:"chapterTitle"`
	Content []Lecture `json:"chapterContent" validate:"dive"`
}

type Lecture struct {
	ID            string `json:"lectureId" validate:"required"`
	Order         int    `json:"lectureOrder"`
	Title         string `json:"lectureTitle"`
	Duration      int    `json:"lectureDuration" validate:"gte=0"` // minutes
	URL           string `json:"lectureUrl"`
	IsPreviewFree bool   `json:"isPreviewFree"`
}

// EducatorRef is either a bare user id or a populated {_id, name} object,
// depending on whether the backend populated the reference.
type EducatorRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (e *EducatorRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = EducatorRef{ID: id}
		return nil
	}

	type plain EducatorRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EducatorRef(p)
	return nil
}

// DiscountPercent returns the discount clamped into [0,100].
func (c *Course) DiscountPercent() float64 {
	return math.Min(100, math.Max(0, c.Discount))
}

// DiscountedPrice is price × (1 − discount/100), rounded to cents and never negative.
func (c *Course) DiscountedPrice() float64 {
	if c == nil || c.Price <= 0 {
		return 0
	}
	if c.DiscountPercent() == 0 {
		return c.Price
	}
	p := c.Price * (1 - c.DiscountPercent()/100)
	return math.Max(0, math.Round(p*100)/100)
}

func (c *Course) IsFree() bool {
	return c.DiscountedPrice() == 0
}

// FindLecture looks a lecture up by id across all chapters.
func (c *Course) FindLecture(lectureID string) (*Lecture, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Content {
		for j := range c.Content[i].Content {
			if c.Content[i].Content[j].ID == lectureID {
				return &c.Content[i].Content[j], true
			}
		}
	}
	return nil, false
}

func (c *Course) HasStudent(userID string) bool {
	for _, id := range c.EnrolledStudents {
		if id == userID {
			return true
		}
	}
	return false
}
