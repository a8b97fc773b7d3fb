package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appControllers "github.com/yigit/sis/internal/app/controllers"
	"github.com/yigit/sis/internal/app/models"
	appRepos "github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/config"
	"github.com/yigit/sis/internal/pkg/auth"
	"github.com/yigit/sis/internal/seed"
	"github.com/yigit/sis/internal/testutil/testdb"
)

const (
	adminNo       = "12345678"
	adminPassword = "admin123"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func (c apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// login posts form-encoded credentials and returns the access token
func (c apiClient) login(accountNo, password string) string {
	c.t.Helper()

	form := url.Values{"username": {accountNo}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(c.t, "bearer", resp.Data.TokenType)
	return resp.Data.AccessToken
}

func newTestRouter(t *testing.T) apiClient {
	t.Helper()
	return apiClient{t: t, router: NewRouter([]string{"*"}, newTestDeps(t))}
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pg := testdb.SetupSharedPostgres(t)
	pg.Reset(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.AccessTokenExpiration = "15m"
	cfg.JWT.Issuer = "sis-test"
	cfg.Bootstrap.AdminAccountNo = adminNo
	cfg.Bootstrap.AdminPassword = adminPassword
	cfg.Bootstrap.DefaultPassword = "123456"

	_, err := SeedAdmin(context.Background(), cfg, pg.Pool, zerolog.Nop())
	require.NoError(t, err)

	deps, err := BuildDependencies(cfg, pg.Pool, zerolog.Nop())
	require.NoError(t, err)
	return deps
}

type failingExporter struct{}

func (failingExporter) FileName() string { return "enrollments.xlsx" }

func (failingExporter) Render([]*models.EnrollmentDetail) ([]byte, error) {
	return nil, errors.New("disk full")
}

func TestRouter_Health(t *testing.T) {
	c := newTestRouter(t)

	w := c.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}

func TestRouter_EndToEnd(t *testing.T) {
	c := newTestRouter(t)
	admin := c.login(adminNo, adminPassword)

	w := c.do(http.MethodPost, "/api/admin/users", admin, map[string]interface{}{
		"account_no": "T001", "role": "teacher", "Tname": "Dr. Smith",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/admin/users", admin, map[string]interface{}{
		"account_no": "S001", "role": "student", "Sname": "Alice", "Ssex": "F", "Sdept": "CS",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/admin/users", admin, map[string]interface{}{
		"account_no": "S002", "role": "student", "Sname": "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/admin/courses", admin, map[string]interface{}{
		"Cno": "CS101", "Ctno": "T001", "Cname": "Databases", "Ccredit": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/admin/courses", admin, map[string]interface{}{
		"Cno": "CS101", "Ctno": "T001", "Cname": "Databases", "Ccredit": 3,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	student := c.login("S001", "123456")
	teacher := c.login("T001", "123456")

	t.Run("StudentOnAdminRouteIsForbidden", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/admin/students", student, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("MeReadsAccount", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/auth/me", student, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"account_no":"S001"`)
		assert.Contains(t, w.Body.String(), `"role":"student"`)
	})

	t.Run("NoTokenIsUnauthorized", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/student/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("EnrollTwiceIsConflict", func(t *testing.T) {
		body := map[string]string{"Cno": "CS101", "Tno": "T001"}
		w := c.do(http.MethodPost, "/api/student/enroll", student, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = c.do(http.MethodPost, "/api/student/enroll", student, body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("TeacherGradesWithZero", func(t *testing.T) {
		w := c.do(http.MethodPut, "/api/teacher/enrollments/S001/CS101/grade", teacher, map[string]interface{}{"grade": 0})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"grade":"0"`)

		w = c.do(http.MethodPut, "/api/teacher/enrollments/S001/CS101/grade", teacher, map[string]interface{}{"grade": nil})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"grade":null`)

		w = c.do(http.MethodPut, "/api/teacher/enrollments/S001/CS101/grade", teacher, map[string]interface{}{"grade": 150})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("StudentSeesEnrollment", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/student/courses", student, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"selected":true`)
		assert.Contains(t, w.Body.String(), `"enrolled":1`)
	})

	t.Run("TeacherProfileAndCourses", func(t *testing.T) {
		w := c.do(http.MethodPut, "/api/teacher/profile", teacher, map[string]interface{}{"Tdept": "CS"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"Tdept":"CS"`)

		w = c.do(http.MethodGet, "/api/teacher/profile", teacher, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Tno":"T001"`)

		w = c.do(http.MethodGet, "/api/teacher/courses", teacher, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Cno":"CS101"`)

		w = c.do(http.MethodPut, "/api/admin/teachers/T001", admin, map[string]interface{}{"Tname": "Dr. J. Smith"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = c.do(http.MethodGet, "/api/admin/teachers/T001", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Tname":"Dr. J. Smith"`)

		w = c.do(http.MethodGet, "/api/admin/teachers/T404", admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Export", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/admin/enrollments/export", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "enrollments_")
		assert.NotZero(t, w.Body.Len())
	})

	t.Run("BootstrapAdminIsProtected", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/admin/users/"+adminNo, admin, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("DeleteStudentCascades", func(t *testing.T) {
		w := c.do(http.MethodDelete, "/api/admin/users/S001", admin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = c.do(http.MethodGet, "/api/admin/enrollments", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "S001")
	})

	t.Run("MeAfterAccountDeletedIsNotFound", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/auth/me", student, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func TestRouter_ExportFailureIsErrorResponse(t *testing.T) {
	deps := newTestDeps(t)
	deps.Controllers.Enrollments = appControllers.NewEnrollmentController(deps.Services.Enrollments, failingExporter{}, zerolog.Nop())
	c := apiClient{t: t, router: NewRouter([]string{"*"}, deps)}
	admin := c.login(adminNo, adminPassword)

	w := c.do(http.MethodGet, "/api/admin/enrollments/export", admin, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	pg.Reset(t)

	cfg := &config.Config{}
	cfg.Bootstrap.AdminAccountNo = adminNo
	cfg.Bootstrap.AdminPassword = adminPassword

	created, err := SeedAdmin(context.Background(), cfg, pg.Pool, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(context.Background(), cfg, pg.Pool, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)

	// a second seed with another password must not reset the first one
	created, err = seed.EnsureBootstrapAdmin(context.Background(), appRepos.NewStore(pg.Pool), seed.AdminSeed{
		AccountNo: adminNo, Password: "other-password", Hasher: auth.PasswordHasher{Cost: 4},
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)
}
