package authoring

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intro = LectureInput{Title: "Intro", Duration: 10, URL: "https://youtu.be/dQw4w9WgXcQ", IsPreviewFree: true}

func TestBuildNumbersChaptersAndLectures(t *testing.T) {
	d := &Draft{Title: "Go", Price: 20, Discount: 10}
	ch1, err := d.AddChapter("Basics")
	require.NoError(t, err)
	ch2, err := d.AddChapter("Deeper")
	require.NoError(t, err)

	_, err = d.AddLecture(ch1, intro)
	require.NoError(t, err)
	second, err := d.AddLecture(ch1, LectureInput{Title: "Setup", Duration: 5, URL: "https://example.com/setup"})
	require.NoError(t, err)
	_, err = d.AddLecture(ch1, LectureInput{Title: "Tooling", Duration: 7, URL: "https://example.com/tooling"})
	require.NoError(t, err)
	_, err = d.AddLecture(ch2, LectureInput{Title: "Internals", Duration: 45, URL: "https://example.com/internals"})
	require.NoError(t, err)

	require.NoError(t, d.RemoveLecture(ch1, second))

	course, err := d.Build()
	require.NoError(t, err)
	require.Len(t, course.Content, 2)
	assert.Equal(t, 1, course.Content[1].Order)
	assert.Equal(t, ch1, course.Content[0].ID)

	lectures := course.Content[0].Content
	require.Len(t, lectures, 2)
	assert.Equal(t, "Intro", lectures[0].Title)
	assert.Equal(t, 0, lectures[0].Order)
	assert.Equal(t, "Tooling", lectures[1].Title)
	assert.Equal(t, 1, lectures[1].Order)
	assert.NotEmpty(t, lectures[1].ID)
	assert.True(t, lectures[0].IsPreviewFree)
}

func TestIncompleteLectureRejected(t *testing.T) {
	d := &Draft{Title: "Go"}
	ch, err := d.AddChapter("Basics")
	require.NoError(t, err)

	_, err = d.AddLecture(ch, LectureInput{Title: " ", Duration: 0, URL: "not a url"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "lectureTitle")
	assert.Contains(t, verr.Fields, "lectureDuration")
	assert.Contains(t, verr.Fields, "lectureUrl")
	assert.Empty(t, d.Chapters[0].Lectures)

	_, err = d.AddLecture("nope", intro)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestChapterEdits(t *testing.T) {
	d := &Draft{Title: "Go"}
	_, err := d.AddChapter("")
	assert.Error(t, err)

	a, _ := d.AddChapter("A")
	b, _ := d.AddChapter("B")
	require.NoError(t, d.RenameChapter(b, "Bee"))
	require.NoError(t, d.RemoveChapter(a))
	assert.ErrorIs(t, d.RemoveChapter(a), ErrChapterNotFound)
	assert.ErrorIs(t, d.RemoveLecture(b, "x"), ErrLectureNotFound)

	course, err := d.Build()
	require.NoError(t, err)
	require.Len(t, course.Content, 1)
	assert.Equal(t, "Bee", course.Content[0].Title)
	assert.Equal(t, 0, course.Content[0].Order)
}

func TestBuildValidatesCourseFields(t *testing.T) {
	_, err := (&Draft{Price: -1, Discount: 120}).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "courseTitle")
	assert.Contains(t, verr.Fields, "coursePrice")
	assert.Contains(t, verr.Fields, "discount")
	assert.Contains(t, verr.Error(), "courseTitle")
}

func TestFormDraft(t *testing.T) {
	raw := `{
		"courseTitle": "Go",
		"coursePrice": 30,
		"discount": 0,
		"courseContent": [
			{"chapterTitle": "Basics", "chapterContent": [
				{"lectureTitle": "Intro", "lectureDuration": 10, "lectureUrl": "https://youtu.be/dQw4w9WgXcQ", "isPreviewFree": true}
			]}
		]
	}`
	var f Form
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	d, err := f.Draft()
	require.NoError(t, err)
	assert.True(t, d.Published)

	course, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, 10, course.Content[0].Content[0].Duration)

	f.Chapters[0].Lectures[0].URL = ""
	_, err = f.Draft()
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
