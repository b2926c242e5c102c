package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/backend/config"
	"storefront/backend/models"
	"storefront/backend/session"
	"storefront/backend/testutil"
	"storefront/backend/upstream"
	"storefront/backend/utils"
)

const secret = "test-secret"

type testApp struct {
	app     *fiber.App
	backend *testutil.Backend
}

func setup(t *testing.T) *testApp {
	t.Helper()
	b := testutil.NewBackend()
	t.Cleanup(b.Close)
	b.AddCourse(testutil.Course("free", 0, 0))
	b.AddCourse(testutil.Course("paid", 50, 0))

	cfg := &config.Config{IdentitySecret: secret, Currency: "$", RequestTimeout: 2 * time.Second, SessionTTL: time.Minute}
	client := upstream.New(b.URL(), cfg.RequestTimeout)
	sessions := session.NewManager(client, utils.NopLogger(), cfg.SessionTTL)
	sessions.Start(context.Background())

	app := fiber.New()
	SetupRoutes(app, client, sessions, cfg)
	return &testApp{app: app, backend: b}
}

// user registers a user with the backend and returns its identity token.
func (ta *testApp) user(id, name, role string) string {
	token := testutil.Token(secret, id, name, role)
	ta.backend.AddUser(token, models.SessionUser{ID: id, Name: name, Role: role})
	return token
}

type response struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data"`
	Details       map[string]interface{} `json:"details"`
	Notifications []utils.Notice         `json:"notifications"`
}

func (ta *testApp) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (ta *testApp) get(t *testing.T, path, token string) (int, response) {
	return ta.do(t, fiber.MethodGet, path, token, nil, "")
}

func (ta *testApp) post(t *testing.T, path, token string, body interface{}) (int, response) {
	if body == nil {
		return ta.do(t, fiber.MethodPost, path, token, nil, "")
	}
	raw, _ := json.Marshal(body)
	return ta.do(t, fiber.MethodPost, path, token, bytes.NewReader(raw), fiber.MIMEApplicationJSON)
}

func levels(notices []utils.Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Level
	}
	return out
}

func TestHealth(t *testing.T) {
	ta := setup(t)
	req := httptest.NewRequest(fiber.MethodGet, "/healthz", nil)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCatalog(t *testing.T) {
	ta := setup(t)

	status, res := ta.get(t, "/api/catalog", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, res.Data["total"])

	// a bad token on a public route is treated as anonymous
	status, res = ta.get(t, "/api/catalog?search=PAID", "garbage")
	require.Equal(t, fiber.StatusOK, status)
	courses := res.Data["courses"].([]interface{})
	require.Len(t, courses, 1)
	card := courses[0].(map[string]interface{})
	assert.Equal(t, "paid", card["id"])
	assert.Equal(t, "1 hour, 15 minutes", card["duration"])
	assert.EqualValues(t, 3, card["lectures"])
}

func TestCourseDetailsAnonymous(t *testing.T) {
	ta := setup(t)

	status, res := ta.get(t, "/api/catalog/paid", "")
	require.Equal(t, fiber.StatusOK, status)

	chapters := res.Data["chapters"].([]interface{})
	require.Len(t, chapters, 2)
	lectures := chapters[0].(map[string]interface{})["content"].([]interface{})
	preview := lectures[0].(map[string]interface{})
	locked := lectures[1].(map[string]interface{})
	assert.Equal(t, false, preview["locked"])
	assert.Equal(t, "dQw4w9WgXcQ", preview["videoId"])
	assert.Equal(t, true, locked["locked"])
	assert.Nil(t, locked["url"])

	gate := res.Data["access"].(map[string]interface{})
	assert.Equal(t, false, gate["enrolled"])
	assert.Equal(t, false, gate["enroll"].(map[string]interface{})["allowed"])
	assert.Nil(t, res.Data["progress"])

	status, _ = ta.get(t, "/api/catalog/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAnonymousNoticesStayWithTheirRequest(t *testing.T) {
	ta := setup(t)
	ta.backend.Down("/api/course/paid", true)

	for i := 0; i < 3; i++ {
		status, res := ta.get(t, "/api/catalog/paid", "")
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, []string{"error"}, levels(res.Notifications))
	}

	status, res := ta.get(t, "/api/catalog", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, res.Notifications)
}

func TestEnroll(t *testing.T) {
	t.Run("RequiresLogin", func(t *testing.T) {
		ta := setup(t)
		status, _ := ta.post(t, "/api/catalog/free/enroll", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, 0, ta.backend.Calls("/api/user/purchase"))
	})

	t.Run("FreeCourse", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)

		status, res := ta.post(t, "/api/catalog/free/enroll", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, res.Data["enrolled"])
		assert.Contains(t, levels(res.Notifications), "success")

		_, me := ta.get(t, "/api/me", token)
		assert.Equal(t, []interface{}{"free"}, me.Data["enrolledCourses"])

		status, _ = ta.post(t, "/api/catalog/free/enroll", token, nil)
		assert.Equal(t, fiber.StatusConflict, status)
	})

	t.Run("PaidCourse", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)

		status, res := ta.post(t, "/api/catalog/paid/enroll", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "https://checkout.example.com/session/paid", res.Data["redirectUrl"])

		_, me := ta.get(t, "/api/me", token)
		assert.Empty(t, me.Data["enrolledCourses"])
	})
}

func TestPlayer(t *testing.T) {
	t.Run("NotEnrolled", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)

		status, _ := ta.get(t, "/api/player/paid", token)
		assert.Equal(t, fiber.StatusForbidden, status)

		status, res := ta.post(t, "/api/player/paid/lectures/paid-l1/complete", token, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, "please enroll in the course first", res.Message)
		assert.Equal(t, 0, ta.backend.Calls("/api/user/update-course-progress"))
		assert.Equal(t, 0, ta.backend.Calls("/api/user/get-course-progress"))
	})

	t.Run("MarkComplete", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)
		ta.backend.Enroll("u1", "paid")

		status, res := ta.post(t, "/api/player/paid/lectures/paid-l2/complete", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, true, res.Data["confirmed"])
		progress := res.Data["progress"].(map[string]interface{})
		assert.EqualValues(t, 1, progress["completedCount"])
		assert.Contains(t, levels(res.Notifications), "success")

		status, res = ta.get(t, "/api/player/paid", token)
		require.Equal(t, fiber.StatusOK, status)
		progress = res.Data["progress"].(map[string]interface{})
		assert.Equal(t, "loaded", progress["state"])
		assert.Equal(t, []interface{}{"paid-l2"}, progress["completedLectures"])
		chapters := res.Data["chapters"].([]interface{})
		lecture := chapters[0].(map[string]interface{})["content"].([]interface{})[1].(map[string]interface{})
		assert.Equal(t, true, lecture["completed"])
		assert.Equal(t, false, lecture["locked"])
	})

	t.Run("UpdateRejected", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)
		ta.backend.Enroll("u1", "free")
		ta.backend.Fail("/api/user/update-course-progress", "Progress not saved")

		status, res := ta.post(t, "/api/player/free/lectures/free-l1/complete", token, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "Progress not saved", res.Message)
		assert.Contains(t, levels(res.Notifications), "error")

		_, res = ta.get(t, "/api/player/free", token)
		progress := res.Data["progress"].(map[string]interface{})
		assert.EqualValues(t, 0, progress["completedCount"])
	})

	t.Run("UpdateNotRecorded", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)
		ta.backend.Enroll("u1", "paid")
		ta.backend.DropUpdates(true)

		status, res := ta.post(t, "/api/player/paid/lectures/paid-l2/complete", token, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, false, res.Data["confirmed"])
		progress := res.Data["progress"].(map[string]interface{})
		assert.EqualValues(t, 0, progress["completedCount"])
		assert.Contains(t, levels(res.Notifications), "info")
		assert.NotContains(t, levels(res.Notifications), "success")
	})

	t.Run("Rating", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("u1", "Ada", models.RoleStudent)
		ta.backend.Enroll("u1", "free")

		status, _ := ta.post(t, "/api/player/free/rating", token, map[string]int{"rating": 6})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, 0, ta.backend.Calls("/api/user/add-rating"))

		status, _ = ta.post(t, "/api/player/free/rating", token, map[string]int{"rating": 4})
		require.Equal(t, fiber.StatusOK, status)

		_, res := ta.get(t, "/api/player/free", token)
		assert.EqualValues(t, 4, res.Data["myRating"])
		assert.EqualValues(t, 4, res.Data["rating"])

		status, _ = ta.post(t, "/api/player/paid/rating", token, map[string]int{"rating": 4})
		assert.Equal(t, fiber.StatusForbidden, status)
	})
}

func TestEnrollments(t *testing.T) {
	ta := setup(t)
	token := ta.user("u1", "Ada", models.RoleStudent)
	ta.backend.Enroll("u1", "free")
	ta.backend.Enroll("u1", "paid")
	ta.backend.SetProgress("u1", "free", "free-l1", "free-l2", "free-l3")

	status, res := ta.get(t, "/api/me/enrollments", token)
	require.Equal(t, fiber.StatusOK, status)
	rows := res.Data["enrollments"].([]interface{})
	require.Len(t, rows, 2)

	// most recent first
	assert.Equal(t, "paid", rows[0].(map[string]interface{})["courseId"])
	done := rows[1].(map[string]interface{})
	assert.EqualValues(t, 100, done["completionPercent"])
	assert.Equal(t, true, done["completed"])
}

func TestRefreshKeepsStaleData(t *testing.T) {
	ta := setup(t)
	token := ta.user("u1", "Ada", models.RoleStudent)
	ta.backend.Enroll("u1", "free")
	_, _ = ta.get(t, "/api/me", token)

	ta.backend.Down("/api/user/enrolled-courses", true)
	status, res := ta.post(t, "/api/me/refresh", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"free"}, res.Data["enrolledCourses"])
	assert.Contains(t, levels(res.Notifications), "error")
}

func TestEducator(t *testing.T) {
	t.Run("BecomeEducator", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("edu1", "Grace", models.RoleStudent)
		ta.backend.Enroll("u9", "paid")

		status, _ := ta.get(t, "/api/educator/dashboard", token)
		assert.Equal(t, fiber.StatusForbidden, status)

		status, _ = ta.post(t, "/api/educator/role", token, nil)
		require.Equal(t, fiber.StatusOK, status)

		status, res := ta.get(t, "/api/educator/dashboard", token)
		require.Equal(t, fiber.StatusOK, status)
		assert.EqualValues(t, 2, res.Data["totalCourses"])
		assert.EqualValues(t, 50, res.Data["totalEarnings"])

		status, res = ta.get(t, "/api/educator/courses", token)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, res.Data["courses"], 2)
		assert.EqualValues(t, 50, res.Data["totalEarnings"])

		status, res = ta.get(t, "/api/educator/students", token)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, res.Data["students"], 1)
	})

	t.Run("CreateCourse", func(t *testing.T) {
		ta := setup(t)
		token := ta.user("edu1", "Grace", models.RoleEducator)

		form := func(courseData string, withImage bool) (io.Reader, string) {
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			_ = w.WriteField("courseData", courseData)
			if withImage {
				fw, _ := w.CreateFormFile("image", "thumb.png")
				_, _ = fw.Write([]byte("png"))
			}
			_ = w.Close()
			return &buf, w.FormDataContentType()
		}

		incomplete := `{"courseTitle":"New Course","coursePrice":10,"courseContent":[{"chapterTitle":"One","chapterContent":[{"lectureTitle":"Intro","lectureDuration":5}]}]}`
		body, ct := form(incomplete, true)
		status, res := ta.do(t, fiber.MethodPost, "/api/educator/courses", token, body, ct)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.Contains(t, res.Details, "lectureUrl")
		assert.Empty(t, ta.backend.Uploads())

		complete := `{"courseTitle":"New Course","coursePrice":10,"courseContent":[{"chapterTitle":"One","chapterContent":[{"lectureTitle":"Intro","lectureDuration":5,"lectureUrl":"https://youtu.be/dQw4w9WgXcQ"}]}]}`
		body, ct = form(complete, false)
		status, _ = ta.do(t, fiber.MethodPost, "/api/educator/courses", token, body, ct)
		assert.Equal(t, fiber.StatusBadRequest, status)

		body, ct = form(complete, true)
		status, res = ta.do(t, fiber.MethodPost, "/api/educator/courses", token, body, ct)
		require.Equal(t, fiber.StatusCreated, status)
		assert.Contains(t, levels(res.Notifications), "success")

		uploads := ta.backend.Uploads()
		require.Len(t, uploads, 1)
		assert.Equal(t, "New Course", uploads[0].Title)
		assert.NotEmpty(t, uploads[0].Content[0].Content[0].ID)

		_, res = ta.get(t, "/api/catalog", "")
		assert.EqualValues(t, 3, res.Data["total"])
	})
}
