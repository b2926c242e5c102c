// Package progress reconciles a course's content tree with the backend's
// record of completed lectures.
package progress

import (
	"context"
	"sort"
	"sync"

	"storefront/backend/access"
	"storefront/backend/catalog"
	"storefront/backend/models"
)

type State int

const (
	Unloaded State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unloaded"
}

// Phase of one mark-complete request.
type Phase int

const (
	Applied    Phase = iota + 1 // added locally, backend not yet answered
	Confirmed                   // backend accepted and the record agrees
	RolledBack                  // backend refused, or its record lacks the lecture
)

// Backend is the subset of the learning backend a Tracker talks to.
type Backend interface {
	FetchProgress(ctx context.Context, token, courseID string) (*models.ProgressRecord, error)
	UpdateProgress(ctx context.Context, token, courseID, lectureID string) error
}

// Tracker holds one viewer's progress in one course. It is safe for
// concurrent use.
type Tracker struct {
	backend Backend
	token   string
	course  models.Course

	mu        sync.RWMutex
	state     State
	completed map[string]struct{}
	phases    map[string]Phase
	lastErr   error
}

func NewTracker(backend Backend, token string, course models.Course) *Tracker {
	return &Tracker{
		backend:   backend,
		token:     token,
		course:    course,
		completed: map[string]struct{}{},
		phases:    map[string]Phase{},
	}
}

// Load fetches the authoritative record. A failed fetch leaves the tracker in
// Failed with no progress; it is returned so the caller can notify.
func (t *Tracker) Load(ctx context.Context) error {
	rec, err := t.backend.FetchProgress(ctx, t.token, t.course.ID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.lastErr = err
		if t.state != Loaded {
			t.state = Failed
		}
		return err
	}
	t.apply(rec)
	return nil
}

// apply replaces the local set with the authoritative one.
func (t *Tracker) apply(rec *models.ProgressRecord) {
	set := make(map[string]struct{}, len(rec.LectureCompleted))
	for _, id := range rec.LectureCompleted {
		set[id] = struct{}{}
	}
	t.completed = set
	t.state = Loaded
	t.lastErr = nil
	for id, ph := range t.phases {
		if ph != Applied {
			continue
		}
		if _, ok := set[id]; ok {
			t.phases[id] = Confirmed
		} else {
			t.phases[id] = RolledBack
		}
	}
}

// MarkComplete records a lecture as completed. Viewers who are not enrolled
// are refused before any request is made. The lecture is shown as completed
// immediately; a refused update rolls it back, an accepted one is followed
// by a re-fetch whose result replaces the local set.
//
// The lecture id is not checked against the course content.
func (t *Tracker) MarkComplete(ctx context.Context, lectureID string, enrolled bool) error {
	if !enrolled {
		return access.ErrNotEnrolled
	}

	t.mu.Lock()
	_, had := t.completed[lectureID]
	t.completed = withLecture(t.completed, lectureID)
	t.phases[lectureID] = Applied
	t.mu.Unlock()

	if err := t.backend.UpdateProgress(ctx, t.token, t.course.ID, lectureID); err != nil {
		t.mu.Lock()
		if !had {
			t.completed = withoutLecture(t.completed, lectureID)
		}
		t.phases[lectureID] = RolledBack
		t.lastErr = err
		t.mu.Unlock()
		return err
	}

	rec, err := t.backend.FetchProgress(ctx, t.token, t.course.ID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		// the update went through; keep the local entry until the next load
		t.phases[lectureID] = Confirmed
		if t.state != Loaded {
			t.state = Loaded
		}
		t.lastErr = err
		return nil
	}
	t.apply(rec)
	return nil
}

func withLecture(set map[string]struct{}, id string) map[string]struct{} {
	next := make(map[string]struct{}, len(set)+1)
	for k := range set {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}

func withoutLecture(set map[string]struct{}, id string) map[string]struct{} {
	next := make(map[string]struct{}, len(set))
	for k := range set {
		if k != id {
			next[k] = struct{}{}
		}
	}
	return next
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracker) Phase(lectureID string) Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phases[lectureID]
}

// Err is the last failure seen by Load or MarkComplete, nil after a
// successful load.
func (t *Tracker) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

func (t *Tracker) IsCompleted(lectureID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.completed[lectureID]
	return ok
}

func (t *Tracker) CompletionPercent() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Percent(len(t.completed), catalog.LectureCount(&t.course))
}

func (t *Tracker) IsComplete() bool {
	return t.CompletionPercent() == 100
}

// Snapshot renders the derived progress view.
func (t *Tracker) Snapshot() models.CourseProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.completed))
	for id := range t.completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := catalog.LectureCount(&t.course)
	lectures := make(map[string]bool, total)
	for _, ch := range t.course.Content {
		for _, l := range ch.Content {
			_, done := t.completed[l.ID]
			lectures[l.ID] = done
		}
	}

	pct := Percent(len(ids), total)
	return models.CourseProgress{
		CourseID:          t.course.ID,
		State:             t.state.String(),
		CompletedLectures: ids,
		CompletedCount:    len(ids),
		TotalLectures:     total,
		CompletionPercent: pct,
		IsComplete:        pct == 100,
		Lectures:          lectures,
	}
}

// Percent is 100 × completed / total, 0 for an empty course and capped at
// 100 when the record holds ids the course no longer has.
func Percent(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return 100 * float64(completed) / float64(total)
}
