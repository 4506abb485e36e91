package app

import (
	"edusync_backend/internal/config"
	"edusync_backend/internal/model"
	"edusync_backend/internal/util"
	"edusync_backend/pkg/database"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "app-test-secret-0123456789abcdefghij"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
		Results: config.ResultsConfig{
			CourseFetchLimit:      4,
			CourseCacheTTLSeconds: 60,
			DefaultLocale:         "en-US",
		},
	}
}

func newTestApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "app.db"),
	}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := New(testConfig(), db, nil)
	t.Cleanup(func() { a.cancel() })
	return a, db
}

func createUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) (*model.User, string) {
	t.Helper()
	u := &model.User{Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	require.NoError(t, db.Create(u).Error)
	token, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	return u, "Bearer " + token
}

func call(a *App, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestHealth(t *testing.T) {
	a, _ := newTestApp(t)

	w := call(a, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.Contains(t, w.Body.String(), `"cache":"disabled"`)
}

func TestMetricsEndpoint(t *testing.T) {
	a, _ := newTestApp(t)

	call(a, http.MethodGet, "/api/health", "", "")
	w := call(a, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestResultsWorkflow(t *testing.T) {
	a, db := newTestApp(t)
	_, instructor := createUser(t, db, "Grace", model.Instructor)
	ada, adaAuth := createUser(t, db, "Ada", model.Student)
	_, linusAuth := createUser(t, db, "Linus", model.Student)

	// 学生不能创建课程
	w := call(a, http.MethodPost, "/api/instructor/courses", adaAuth, `{"title":"Sneaky"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = call(a, http.MethodPost, "/api/instructor/courses", instructor, `{"title":"Intro to Go","description":"basics"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var course model.Course
	dataOf(t, w, &course)
	require.NotEmpty(t, course.ID)

	w = call(a, http.MethodPost, "/api/instructor/assessments", instructor,
		`{"courseId":"`+course.ID+`","title":"Quiz 1","questions":[{"q":"1+1"}],"maxScore":10}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var quiz model.Assessment
	dataOf(t, w, &quiz)

	w = call(a, http.MethodPost, "/api/instructor/assessments", instructor,
		`{"courseId":"missing","title":"Orphan","maxScore":10}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = call(a, http.MethodPost, "/api/results", adaAuth, `{"assessmentId":"`+quiz.ID+`","score":7}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = call(a, http.MethodPost, "/api/results", linusAuth, `{"assessmentId":"`+quiz.ID+`","score":6.5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// 指向已删除评估的成绩
	orphan := &model.Result{AssessmentID: "deleted-assessment", UserID: ada.ID, Score: 3, AttemptDate: time.Now().UTC()}
	require.NoError(t, db.Create(orphan).Error)

	w = call(a, http.MethodGet, "/api/results/mine", adaAuth, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Title string `json:"title"`
		State struct {
			Rows []struct {
				UserID     string `json:"userId"`
				Assessment string `json:"assessment"`
				Course     string `json:"course"`
				Score      string `json:"score"`
				Status     string `json:"status"`
				Student    string `json:"student"`
			} `json:"rows"`
		} `json:"state"`
	}
	dataOf(t, w, &mine)
	assert.Equal(t, "My Results", mine.Title)
	require.Len(t, mine.State.Rows, 2)
	byScore := map[string]string{}
	for _, row := range mine.State.Rows {
		assert.Equal(t, ada.ID, row.UserID)
		assert.Empty(t, row.Student)
		byScore[row.Score] = row.Status
	}
	assert.Equal(t, "Passed", byScore["7 / 10"])
	assert.Equal(t, "Unknown", byScore["3"])

	// 学生不能查看全部成绩
	w = call(a, http.MethodGet, "/api/instructor/results", adaAuth, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = call(a, http.MethodGet, "/api/instructor/results", instructor, "")
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		ShowStudent bool `json:"showStudent"`
		State       struct {
			Rows []struct {
				Student string `json:"student"`
				Score   string `json:"score"`
				Status  string `json:"status"`
				Course  string `json:"course"`
			} `json:"rows"`
		} `json:"state"`
	}
	dataOf(t, w, &all)
	assert.True(t, all.ShowStudent)
	require.Len(t, all.State.Rows, 3)
	students := map[string]string{}
	for _, row := range all.State.Rows {
		students[row.Score] = row.Student
		if row.Score == "6.5 / 10" {
			assert.Equal(t, "Failed", row.Status)
			assert.Equal(t, "Intro to Go", row.Course)
		}
	}
	assert.Equal(t, "Ada", students["7 / 10"])
	assert.Equal(t, "Linus", students["6.5 / 10"])
}

func TestCourseAndAssessmentReads(t *testing.T) {
	a, db := newTestApp(t)
	_, instructor := createUser(t, db, "Grace", model.Instructor)

	w := call(a, http.MethodPost, "/api/instructor/courses", instructor, `{"title":"Concurrency","mediaUrl":"not a url"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = call(a, http.MethodPost, "/api/instructor/courses", instructor, `{"title":"Concurrency"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var course model.Course
	dataOf(t, w, &course)

	w = call(a, http.MethodGet, "/api/courses/"+course.ID, instructor, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = call(a, http.MethodGet, "/api/courses/unknown", instructor, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = call(a, http.MethodGet, "/api/courses?page=1&limit=10", instructor, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page util.PageResponse
	dataOf(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = call(a, http.MethodPost, "/api/instructor/assessments", instructor,
		`{"courseId":"`+course.ID+`","title":"Lab","maxScore":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = call(a, http.MethodPost, "/api/instructor/assessments", instructor,
		`{"courseId":"`+course.ID+`","title":"Lab","maxScore":20}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var lab model.Assessment
	dataOf(t, w, &lab)
	assert.Equal(t, "[]", lab.Questions)

	w = call(a, http.MethodGet, "/api/assessments?courseId="+course.ID, instructor, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Assessment
	dataOf(t, w, &list)
	require.Len(t, list, 1)

	w = call(a, http.MethodGet, "/api/assessments/"+lab.ID, instructor, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = call(a, http.MethodGet, "/api/assessments/none", instructor, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResultsUnavailable(t *testing.T) {
	a, db := newTestApp(t)
	_, auth := createUser(t, db, "Ada", model.Student)
	require.NoError(t, db.Migrator().DropTable(&model.Result{}))

	w := call(a, http.MethodGet, "/api/results/mine", auth, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), util.ResultsUnavailableMessage)
	assert.NotContains(t, w.Body.String(), `"rows"`)
}

func TestApplyConfigRunsCallbacks(t *testing.T) {
	a, _ := newTestApp(t)

	var seen *config.Config
	a.RegisterConfigCallback(func(c *config.Config) { seen = c })

	next := testConfig()
	next.Results.CourseCacheTTLSeconds = 5
	next.JWT.Secret = "rotated-secret-0123456789abcdefghijk"
	a.ApplyConfig(next)

	assert.Same(t, next, seen)
	assert.Same(t, next, a.Config())

	// 旧 token 在密钥轮换后失效
	u := &model.User{Name: "Ada", Role: model.Student}
	u.ID = "u-1"
	old, err := util.GenerateJWT(u, testSecret, time.Hour)
	require.NoError(t, err)
	w := call(a, http.MethodGet, "/api/results/mine", "Bearer "+old, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
