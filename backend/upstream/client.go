// Package upstream is the typed client for the learning backend's REST API.
// Responses are decoded into models and validated here, so callers never see
// a half-populated entity.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"storefront/backend/models"
)

const maxBodyBytes = 8 << 20

type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

type request struct {
	op          string
	method      string
	path        string
	token       string
	auth        bool
	body        io.Reader
	contentType string
}

func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends the request, checks the envelope and decodes the payload into out.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if r.auth && r.token == "" {
		return &Error{Kind: ErrUnauthorized, Op: r.op, Message: "missing bearer token"}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return &Error{Kind: ErrTransport, Op: r.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: ErrTransport, Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: ErrTransport, Op: r.op, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &Error{Kind: ErrTransport, Op: r.op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
		}
		return &Error{Kind: ErrMalformed, Op: r.op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &Error{Kind: ErrUnauthorized, Op: r.op, Status: resp.StatusCode, Message: env.Message}
	}
	if !env.Success || resp.StatusCode >= 400 {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &Error{Kind: ErrApplication, Op: r.op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: ErrMalformed, Op: r.op, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &Error{Kind: ErrMalformed, Op: r.op, Err: err}
	}
	return nil
}

func (c *Client) FetchCatalog(ctx context.Context) ([]models.Course, error) {
	var p catalogPayload
	if err := c.do(ctx, request{op: "fetch catalog", method: http.MethodGet, path: "/api/course/all"}, &p); err != nil {
		return nil, err
	}
	return p.Courses, nil
}

func (c *Client) FetchCourse(ctx context.Context, courseID string) (*models.Course, error) {
	var p coursePayload
	if err := c.do(ctx, request{op: "fetch course", method: http.MethodGet, path: "/api/course/" + url.PathEscape(courseID)}, &p); err != nil {
		return nil, err
	}
	course := p.CourseData
	if course == nil {
		course = p.Course
	}
	if course == nil {
		return nil, &Error{Kind: ErrMalformed, Op: "fetch course", Message: "course payload missing"}
	}
	if err := c.validate.Struct(course); err != nil {
		return nil, &Error{Kind: ErrMalformed, Op: "fetch course", Err: err}
	}
	return course, nil
}

func (c *Client) FetchUserData(ctx context.Context, token string) (*models.SessionUser, error) {
	var p userPayload
	r := request{op: "fetch user", method: http.MethodGet, path: "/api/user/data", token: token, auth: true}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return p.User, nil
}

// FetchEnrolledCourses returns the user's courses, most recent enrollment first.
func (c *Client) FetchEnrolledCourses(ctx context.Context, token string) ([]models.Course, error) {
	var p enrolledPayload
	r := request{op: "fetch enrolled courses", method: http.MethodGet, path: "/api/user/enrolled-courses", token: token, auth: true}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	reverse(p.EnrolledCourses)
	return p.EnrolledCourses, nil
}

// Purchase starts a purchase. For paid courses the returned URL is the
// payment page; free courses return an empty URL and are enrolled at once.
func (c *Client) Purchase(ctx context.Context, token, courseID string) (string, error) {
	body, err := jsonBody(map[string]string{"courseId": courseID})
	if err != nil {
		return "", err
	}
	var p purchasePayload
	r := request{op: "purchase", method: http.MethodPost, path: "/api/user/purchase", token: token, auth: true,
		body: body, contentType: "application/json"}
	if err := c.do(ctx, r, &p); err != nil {
		return "", err
	}
	return p.SessionURL, nil
}

func (c *Client) AddRating(ctx context.Context, token, courseID string, rating int) error {
	body, err := jsonBody(models.RatingInput{CourseID: courseID, Rating: rating})
	if err != nil {
		return err
	}
	r := request{op: "add rating", method: http.MethodPost, path: "/api/user/add-rating", token: token, auth: true,
		body: body, contentType: "application/json"}
	return c.do(ctx, r, nil)
}

func (c *Client) UpdateProgress(ctx context.Context, token, courseID, lectureID string) error {
	body, err := jsonBody(map[string]string{"courseId": courseID, "lectureId": lectureID})
	if err != nil {
		return err
	}
	r := request{op: "update progress", method: http.MethodPost, path: "/api/user/update-course-progress", token: token,
		auth: true, body: body, contentType: "application/json"}
	return c.do(ctx, r, nil)
}

// FetchProgress returns the user's progress in a course. A course the user
// never started comes back as a null record, which is an empty one.
func (c *Client) FetchProgress(ctx context.Context, token, courseID string) (*models.ProgressRecord, error) {
	body, err := jsonBody(map[string]string{"courseId": courseID})
	if err != nil {
		return nil, err
	}
	var p progressPayload
	r := request{op: "fetch progress", method: http.MethodPost, path: "/api/user/get-course-progress", token: token,
		auth: true, body: body, contentType: "application/json"}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	if p.ProgressData == nil {
		return &models.ProgressRecord{CourseID: courseID}, nil
	}
	if p.ProgressData.CourseID == "" {
		p.ProgressData.CourseID = courseID
	}
	return p.ProgressData, nil
}

func (c *Client) BecomeEducator(ctx context.Context, token string) error {
	r := request{op: "update role", method: http.MethodGet, path: "/api/educator/update-role", token: token, auth: true}
	return c.do(ctx, r, nil)
}

// AddCourse uploads a course document with its thumbnail as multipart form
// data: the course as JSON in "courseData", the image in "courseThumbnail".
func (c *Client) AddCourse(ctx context.Context, token string, course models.Course, thumbnail io.Reader, filename string) error {
	doc, err := json.Marshal(course)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("courseData", string(doc)); err != nil {
		return err
	}
	fw, err := w.CreateFormFile("courseThumbnail", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, thumbnail); err != nil {
		return fmt.Errorf("copy thumbnail: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	r := request{op: "add course", method: http.MethodPost, path: "/api/educator/add-course", token: token, auth: true,
		body: &buf, contentType: w.FormDataContentType()}
	return c.do(ctx, r, nil)
}

func (c *Client) FetchEducatorCourses(ctx context.Context, token string) ([]models.Course, error) {
	var p catalogPayload
	r := request{op: "fetch educator courses", method: http.MethodGet, path: "/api/educator/courses", token: token, auth: true}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return p.Courses, nil
}

func (c *Client) FetchDashboard(ctx context.Context, token string) (*models.DashboardData, error) {
	var p dashboardPayload
	r := request{op: "fetch dashboard", method: http.MethodGet, path: "/api/educator/dashboard", token: token, auth: true}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return p.DashboardData, nil
}

// FetchEnrolledStudents returns the educator's roster, newest purchase first.
func (c *Client) FetchEnrolledStudents(ctx context.Context, token string) ([]models.EnrolledStudent, error) {
	var p studentsPayload
	r := request{op: "fetch enrolled students", method: http.MethodGet, path: "/api/educator/enrolled-students", token: token, auth: true}
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	reverse(p.EnrolledStudents)
	return p.EnrolledStudents, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
