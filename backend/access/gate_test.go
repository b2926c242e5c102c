package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/backend/models"
)

var (
	student = &models.SessionUser{ID: "u1", Name: "Student"}
	course  = &models.Course{
		ID: "c1",
		Content: []models.Chapter{{ID: "ch1", Content: []models.Lecture{
			{ID: "free", IsPreviewFree: true},
			{ID: "paid"},
		}}},
	}
)

func lecture(id string) *models.Lecture {
	l, _ := course.FindLecture(id)
	return l
}

func TestIsEnrolledPrefersSessionList(t *testing.T) {
	assert.True(t, IsEnrolled(student, course, []string{"c9", "c1"}))
	assert.False(t, IsEnrolled(student, course, []string{"c9"}))
	assert.False(t, IsEnrolled(nil, course, []string{"c1"}))
	assert.False(t, IsEnrolled(student, nil, []string{"c1"}))
}

func TestIsEnrolledFallsBackToCourseStudents(t *testing.T) {
	stale := *course
	stale.EnrolledStudents = []string{"u1"}
	assert.True(t, IsEnrolled(student, &stale, nil))
	assert.False(t, IsEnrolled(&models.SessionUser{ID: "u2"}, &stale, nil))
}

func TestCanPreviewIgnoresEnrollment(t *testing.T) {
	assert.True(t, CanPreview(lecture("free")))
	assert.False(t, CanPreview(lecture("paid")))
	assert.False(t, CanPreview(nil))

	assert.True(t, CanWatch(nil, course, lecture("free"), nil))
	assert.False(t, CanWatch(nil, course, lecture("paid"), nil))
	assert.True(t, CanWatch(student, course, lecture("paid"), []string{"c1"}))
}

func TestCanMarkCompleteRequiresEnrollment(t *testing.T) {
	for _, id := range []string{"free", "paid"} {
		assert.False(t, CanMarkComplete(student, course, lecture(id), nil), id)
		assert.True(t, CanMarkComplete(student, course, lecture(id), []string{"c1"}), id)
	}
	assert.False(t, CanRate(student, course, nil))
	assert.True(t, CanRate(student, course, []string{"c1"}))
}

func TestCanEnroll(t *testing.T) {
	assert.False(t, CanEnroll(nil, course, nil))
	assert.True(t, CanEnroll(student, course, nil))
	assert.False(t, CanEnroll(student, course, []string{"c1"}))
}

func TestDecide(t *testing.T) {
	d := Decide(nil, course, nil)
	assert.False(t, d.Enroll.Allowed)
	assert.Equal(t, ErrNotSignedIn.Error(), d.Enroll.Reason)
	assert.Equal(t, ErrNotEnrolled.Error(), d.MarkComplete.Reason)

	d = Decide(student, course, nil)
	assert.True(t, d.Enroll.Allowed)
	assert.False(t, d.Rate.Allowed)

	d = Decide(student, course, []string{"c1"})
	assert.True(t, d.Enrolled)
	assert.False(t, d.Enroll.Allowed)
	assert.True(t, d.MarkComplete.Allowed)
	assert.True(t, d.Rate.Allowed)
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
}
