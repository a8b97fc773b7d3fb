package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *pkgAuth.JWTService) {
	t.Helper()

	jwt := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      "middleware-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "sis-test",
	})
	m := NewAuthMiddleware(appAuth.NewGate(jwt))

	r := gin.New()
	authed := r.Group("/api", m.JWTAuth())
	authed.GET("/me", func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.AccountNo+":"+string(id.Role))
	})
	authed.GET("/admin/users", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwt
}

func doGet(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, jwt := newTestRouter(t)

	tok, err := jwt.IssueToken("S001", models.RoleStudent)
	require.NoError(t, err)
	expired, err := jwt.IssueTokenWithTTL("S001", models.RoleStudent, -time.Minute)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := doGet(r, "/api/me", "Bearer "+tok.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "S001:student", w.Body.String())
	})

	tests := []struct {
		name   string
		header string
		code   dto.ErrorCode
	}{
		{name: "missing header", header: "", code: dto.ErrorCodeUnauthorized},
		{name: "wrong scheme", header: "Basic " + tok.AccessToken, code: dto.ErrorCodeInvalidToken},
		{name: "tampered", header: "Bearer " + tok.AccessToken + "x", code: dto.ErrorCodeInvalidToken},
		{name: "expired", header: "Bearer " + expired.AccessToken, code: dto.ErrorCodeExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, "/api/me", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.Contains(t, w.Body.String(), string(tt.code))
		})
	}
}

func TestRoleRequired(t *testing.T) {
	r, jwt := newTestRouter(t)

	student, err := jwt.IssueToken("S001", models.RoleStudent)
	require.NoError(t, err)
	admin, err := jwt.IssueToken("admin", models.RoleAdmin)
	require.NoError(t, err)

	w := doGet(r, "/api/admin/users", "Bearer "+student.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), string(dto.ErrorCodeForbidden))

	w = doGet(r, "/api/admin/users", "Bearer "+admin.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/api/admin/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired_WithoutIdentity(t *testing.T) {
	m := NewAuthMiddleware(nil)
	r := gin.New()
	r.GET("/x", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
