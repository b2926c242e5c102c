// Package access decides what a viewer may do with a course.
//
// Enrollment has two sources that are filled by different fetches and can
// disagree for a while. The session's enrolled-course list is authoritative;
// the course's own enrolledStudents list is consulted only when the course id
// is absent from the session list, which covers course snapshots fetched
// before the enrollment list was refreshed.
package access

import (
	"errors"

	"storefront/backend/models"
)

var (
	ErrNotSignedIn     = errors.New("please login to enroll in this course")
	ErrNotEnrolled     = errors.New("please enroll in the course first")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision { return Decision{Allowed: true} }

func deny(err error) Decision { return Decision{Reason: err.Error()} }

func IsEnrolled(user *models.SessionUser, course *models.Course, enrolledIDs []string) bool {
	if user == nil || user.ID == "" || course == nil {
		return false
	}
	for _, id := range enrolledIDs {
		if id == course.ID {
			return true
		}
	}
	return course.HasStudent(user.ID)
}

// CanPreview is true for free-preview lectures, whoever is watching.
func CanPreview(lecture *models.Lecture) bool {
	return lecture != nil && lecture.IsPreviewFree
}

func CanWatch(user *models.SessionUser, course *models.Course, lecture *models.Lecture, enrolledIDs []string) bool {
	return CanPreview(lecture) || IsEnrolled(user, course, enrolledIDs)
}

// CanMarkComplete ignores the lecture's preview flag: progress belongs to
// enrolled students only.
func CanMarkComplete(user *models.SessionUser, course *models.Course, _ *models.Lecture, enrolledIDs []string) bool {
	return IsEnrolled(user, course, enrolledIDs)
}

func CanRate(user *models.SessionUser, course *models.Course, enrolledIDs []string) bool {
	return IsEnrolled(user, course, enrolledIDs)
}

func CanEnroll(user *models.SessionUser, course *models.Course, enrolledIDs []string) bool {
	return user != nil && user.ID != "" && !IsEnrolled(user, course, enrolledIDs)
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

// Decisions bundles the per-course gates for rendering.
type Decisions struct {
	Enrolled     bool     `json:"enrolled"`
	Enroll       Decision `json:"enroll"`
	MarkComplete Decision `json:"markComplete"`
	Rate         Decision `json:"rate"`
}

func Decide(user *models.SessionUser, course *models.Course, enrolledIDs []string) Decisions {
	d := Decisions{Enrolled: IsEnrolled(user, course, enrolledIDs)}

	switch {
	case user == nil || user.ID == "":
		d.Enroll = deny(ErrNotSignedIn)
	case d.Enrolled:
		d.Enroll = deny(ErrAlreadyEnrolled)
	default:
		d.Enroll = allow()
	}

	if d.Enrolled {
		d.MarkComplete, d.Rate = allow(), allow()
	} else {
		d.MarkComplete, d.Rate = deny(ErrNotEnrolled), deny(ErrNotEnrolled)
	}
	return d
}
