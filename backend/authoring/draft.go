// Package authoring assembles a new course from an educator's form before it
// is sent to the backend. Incomplete input is rejected here, before any
// network call.
package authoring

import (
	"errors"

	"github.com/google/uuid"

	"storefront/backend/models"
)

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrLectureNotFound = errors.New("lecture not found")
)

type LectureInput struct {
	Title         string `json:"lectureTitle" validate:"notblank"`
	Duration      int    `json:"lectureDuration" validate:"gt=0"`
	URL           string `json:"lectureUrl" validate:"required,url"`
	IsPreviewFree bool   `json:"isPreviewFree"`
}

type ChapterDraft struct {
	ID       string
	Title    string
	Lectures []models.Lecture
}

// Draft is a course under construction. Chapters and lectures keep the order
// they were added in; Build numbers them.
type Draft struct {
	Title       string         `json:"courseTitle" validate:"notblank"`
	Description string         `json:"courseDescription"`
	Price       float64        `json:"coursePrice" validate:"gte=0"`
	Discount    float64        `json:"discount" validate:"gte=0,lte=100"`
	Published   bool           `json:"isPublished"`
	Chapters    []ChapterDraft `json:"-"`
}

func (d *Draft) chapter(id string) (int, error) {
	for i := range d.Chapters {
		if d.Chapters[i].ID == id {
			return i, nil
		}
	}
	return -1, ErrChapterNotFound
}

// AddChapter appends an empty chapter and returns its id.
func (d *Draft) AddChapter(title string) (string, error) {
	if err := check(struct {
		Title string `json:"chapterTitle" validate:"notblank"`
	}{title}); err != nil {
		return "", err
	}
	id := uuid.NewString()
	d.Chapters = append(d.Chapters, ChapterDraft{ID: id, Title: title})
	return id, nil
}

func (d *Draft) RenameChapter(chapterID, title string) error {
	i, err := d.chapter(chapterID)
	if err != nil {
		return err
	}
	if err := check(struct {
		Title string `json:"chapterTitle" validate:"notblank"`
	}{title}); err != nil {
		return err
	}
	d.Chapters[i].Title = title
	return nil
}

func (d *Draft) RemoveChapter(chapterID string) error {
	i, err := d.chapter(chapterID)
	if err != nil {
		return err
	}
	d.Chapters = append(d.Chapters[:i:i], d.Chapters[i+1:]...)
	return nil
}

// AddLecture validates in and appends it to the chapter.
func (d *Draft) AddLecture(chapterID string, in LectureInput) (string, error) {
	i, err := d.chapter(chapterID)
	if err != nil {
		return "", err
	}
	if err := check(in); err != nil {
		return "", err
	}
	id := uuid.NewString()
	d.Chapters[i].Lectures = append(d.Chapters[i].Lectures, models.Lecture{
		ID:            id,
		Title:         in.Title,
		Duration:      in.Duration,
		URL:           in.URL,
		IsPreviewFree: in.IsPreviewFree,
	})
	return id, nil
}

func (d *Draft) RemoveLecture(chapterID, lectureID string) error {
	i, err := d.chapter(chapterID)
	if err != nil {
		return err
	}
	lectures := d.Chapters[i].Lectures
	for j := range lectures {
		if lectures[j].ID == lectureID {
			d.Chapters[i].Lectures = append(lectures[:j:j], lectures[j+1:]...)
			return nil
		}
	}
	return ErrLectureNotFound
}

// Build validates the course fields and returns the course with contiguous
// zero-based chapter and lecture orders.
func (d *Draft) Build() (models.Course, error) {
	if err := check(d); err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Discount:    d.Discount,
		IsPublished: d.Published,
		Content:     make([]models.Chapter, len(d.Chapters)),
	}
	for i, ch := range d.Chapters {
		lectures := make([]models.Lecture, len(ch.Lectures))
		for j, l := range ch.Lectures {
			l.Order = j
			lectures[j] = l
		}
		course.Content[i] = models.Chapter{ID: ch.ID, Order: i, Title: ch.Title, Content: lectures}
	}
	return course, nil
}
