// Package session keeps per-viewer state: who the viewer is, the courses they
// are enrolled in and the shared catalog.
//
// Reads return point-in-time snapshots. Independent fetches are not ordered
// and a read after a mutation is not guaranteed to see it; callers that need
// fresh enrollment data ask for a refresh. Every update replaces a whole
// collection, so a snapshot is never half updated. A failed fetch queues a
// notice and keeps the previous value.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/backend/access"
	"storefront/backend/catalog"
	"storefront/backend/models"
	"storefront/backend/progress"
	"storefront/backend/upstream"
	"storefront/backend/utils"
)

var ErrNoPaymentSession = errors.New("payment session was not created")

// Backend is what a Store needs from the learning backend.
type Backend interface {
	CatalogSource
	progress.Backend
	FetchCourse(ctx context.Context, courseID string) (*models.Course, error)
	FetchUserData(ctx context.Context, token string) (*models.SessionUser, error)
	FetchEnrolledCourses(ctx context.Context, token string) ([]models.Course, error)
	Purchase(ctx context.Context, token, courseID string) (string, error)
	AddRating(ctx context.Context, token, courseID string, rating int) error
	BecomeEducator(ctx context.Context, token string) error
}

type Snapshot struct {
	User       *models.SessionUser
	IsEducator bool
	Courses    []models.Course
	Enrolled   []models.Course
}

func (s Snapshot) EnrolledIDs() []string {
	ids := make([]string, len(s.Enrolled))
	for i, c := range s.Enrolled {
		ids[i] = c.ID
	}
	return ids
}

// Course looks a course up in the catalog, then in the enrolled list.
func (s Snapshot) Course(id string) (*models.Course, bool) {
	if c, ok := catalog.Find(s.Courses, id); ok {
		return c, true
	}
	return catalog.Find(s.Enrolled, id)
}

// EnrolledCourse looks a course up in the enrolled list only; its copy
// carries the content the player needs.
func (s Snapshot) EnrolledCourse(id string) (*models.Course, bool) {
	return catalog.Find(s.Enrolled, id)
}

type Store struct {
	backend Backend
	catalog *Catalog
	log     *utils.Logger

	// shared stores serve many visitors and queue no notices
	shared bool

	mu         sync.RWMutex
	identity   *models.Identity
	user       *models.SessionUser
	isEducator bool
	enrolled   []models.Course
	notices    []utils.Notice
	lastSeen   time.Time
}

func NewStore(backend Backend, cat *Catalog, log *utils.Logger) *Store {
	return &Store{backend: backend, catalog: cat, log: log.With("component", "session"), lastSeen: time.Now()}
}

// SetIdentity records the identity behind the current request. A new subject
// drops the previous user's data and loads profile and enrollments; the same
// subject only picks up the fresh token. A nil identity signs out.
func (s *Store) SetIdentity(ctx context.Context, id *models.Identity) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	if !id.Present() {
		s.identity, s.user, s.enrolled, s.isEducator = nil, nil, nil, false
		s.mu.Unlock()
		return
	}
	changed := s.identity == nil || s.identity.Subject != id.Subject
	cp := *id
	s.identity = &cp
	if changed {
		s.user, s.enrolled = nil, nil
		s.isEducator = id.Role == models.RoleEducator
	} else if id.Role == models.RoleEducator {
		s.isEducator = true
	}
	s.mu.Unlock()

	if changed {
		s.log.Debug("identity changed, loading user data", "subject", id.Subject)
		_ = s.RefreshUser(ctx)
		_ = s.RefreshEnrollments(ctx)
	}
}

func (s *Store) current() (subject, token string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return "", ""
	}
	return s.identity.Subject, s.identity.Token
}

func (s *Store) Token() string {
	_, token := s.current()
	return token
}

// stillCurrent reports whether subject is still the store's identity, so
// results of fetches that outlived a sign-out are dropped.
func (s *Store) stillCurrent(subject string) bool {
	return s.identity != nil && s.identity.Subject == subject
}

func (s *Store) Snapshot() Snapshot {
	courses := s.catalog.Courses()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		User:       s.viewer(),
		IsEducator: s.isEducator,
		Courses:    courses,
		Enrolled:   s.enrolled,
	}
}

// viewer is the loaded profile or, when the profile fetch failed, a minimal
// user built from the identity. Callers hold s.mu.
func (s *Store) viewer() *models.SessionUser {
	if s.user != nil {
		return s.user
	}
	if s.identity == nil {
		return nil
	}
	return &models.SessionUser{ID: s.identity.Subject, Name: s.identity.Name, Email: s.identity.Email, Role: s.identity.Role}
}

func (s *Store) RefreshUser(ctx context.Context) error {
	subject, token := s.current()
	if subject == "" {
		return nil
	}
	user, err := s.backend.FetchUserData(ctx, token)
	if err != nil {
		s.fail("user data", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stillCurrent(subject) {
		return nil
	}
	s.user = user
	if user.IsEducator() {
		s.isEducator = true
	}
	return nil
}

func (s *Store) RefreshEnrollments(ctx context.Context) error {
	subject, token := s.current()
	if subject == "" {
		return nil
	}
	courses, err := s.backend.FetchEnrolledCourses(ctx, token)
	if err != nil {
		s.fail("enrolled courses", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stillCurrent(subject) {
		s.enrolled = courses
	}
	return nil
}

func (s *Store) RefreshCatalog(ctx context.Context) error {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.Notify("error", upstream.UserMessage(err))
		return err
	}
	return nil
}

// Refresh reloads everything the store caches. Failures are reported as
// notices; the first one is returned.
func (s *Store) Refresh(ctx context.Context) error {
	var first error
	for _, fn := range []func(context.Context) error{s.RefreshCatalog, s.RefreshUser, s.RefreshEnrollments} {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type EnrollResult struct {
	Enrolled    bool   `json:"enrolled"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Purchase enrolls the viewer. A free course is enrolled immediately and
// added to the enrolled list, then profile, enrollments and catalog are
// re-fetched; the fetched enrolled list replaces the local one. A paid
// course yields the payment page and the list stays as is until the payment
// is confirmed elsewhere.
func (s *Store) Purchase(ctx context.Context, courseID string) (EnrollResult, error) {
	snap := s.Snapshot()
	if snap.User == nil {
		s.Notify("info", "Please login to enroll in this course")
		return EnrollResult{}, access.ErrNotSignedIn
	}

	course, ok := snap.Course(courseID)
	if !ok {
		fetched, err := s.backend.FetchCourse(ctx, courseID)
		if err != nil {
			s.fail("course", err)
			return EnrollResult{}, err
		}
		course = fetched
	}
	if !access.CanEnroll(snap.User, course, snap.EnrolledIDs()) {
		return EnrollResult{Enrolled: true}, access.ErrAlreadyEnrolled
	}

	subject, token := s.current()
	redirect, err := s.backend.Purchase(ctx, token, courseID)
	if err != nil {
		s.fail("purchase", err)
		return EnrollResult{}, err
	}

	if !course.IsFree() {
		if redirect == "" {
			s.Notify("error", "Enrollment failed")
			return EnrollResult{}, ErrNoPaymentSession
		}
		return EnrollResult{RedirectURL: redirect}, nil
	}

	s.mu.Lock()
	if s.stillCurrent(subject) {
		next := make([]models.Course, 0, len(s.enrolled)+1)
		next = append(next, *course)
		s.enrolled = append(next, s.enrolled...)
	}
	s.mu.Unlock()
	s.Notify("success", "Successfully enrolled in the course!")

	_ = s.RefreshUser(ctx)
	_ = s.RefreshEnrollments(ctx)
	_ = s.RefreshCatalog(ctx)
	return EnrollResult{Enrolled: true}, nil
}

// Rate submits the viewer's rating, enrolled viewers only.
func (s *Store) Rate(ctx context.Context, courseID string, rating int) error {
	snap := s.Snapshot()
	course, ok := snap.Course(courseID)
	if !ok || !access.CanRate(snap.User, course, snap.EnrolledIDs()) {
		return access.ErrNotEnrolled
	}
	if !access.ValidRating(rating) {
		return access.ErrInvalidRating
	}

	if err := s.backend.AddRating(ctx, s.Token(), courseID, rating); err != nil {
		s.fail("rating", err)
		return err
	}
	s.Notify("success", "Rating added successfully!")

	_ = s.RefreshEnrollments(ctx)
	_ = s.RefreshCatalog(ctx)
	return nil
}

// BecomeEducator asks the backend for the educator role.
func (s *Store) BecomeEducator(ctx context.Context) error {
	snap := s.Snapshot()
	if snap.User == nil {
		return access.ErrNotSignedIn
	}
	if snap.IsEducator {
		return nil
	}
	if err := s.backend.BecomeEducator(ctx, s.Token()); err != nil {
		s.fail("educator role", err)
		return err
	}
	s.mu.Lock()
	s.isEducator = true
	s.mu.Unlock()
	s.Notify("success", "You can publish a course now")
	return nil
}

// Tracker returns a progress tracker for the viewer in course.
func (s *Store) Tracker(course models.Course) *progress.Tracker {
	return progress.NewTracker(s.backend, s.Token(), course)
}

// Overview loads progress for every enrolled course.
func (s *Store) Overview(ctx context.Context) []models.EnrollmentProgress {
	rows := progress.Overview(ctx, s.backend, s.Token(), s.Snapshot().Enrolled)
	for _, r := range rows {
		if r.Failed {
			s.Notify("error", "Failed to load course progress")
			break
		}
	}
	return rows
}

// Shared reports whether the store serves every anonymous visitor. Notices
// for such visitors belong on the request, not on the store.
func (s *Store) Shared() bool {
	return s.shared
}

// Notify queues a notice for the viewer's next response. It is a no-op on a
// shared store.
func (s *Store) Notify(level, message string) {
	if s.shared {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, utils.Notice{Level: level, Message: message})
}

// DrainNotices hands over and clears the queued notices.
func (s *Store) DrainNotices() []utils.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

func (s *Store) fail(what string, err error) {
	s.log.Warn("backend call failed", "what", what, "error", err)
	s.Notify("error", upstream.UserMessage(err))
}

func (s *Store) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
