package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		msg    string
	}{
		{
			name:   "invalid credentials",
			err:    apperrors.ErrInvalidCredentials,
			status: http.StatusUnauthorized,
			code:   dto.ErrorCodeInvalidCredentials,
			msg:    "invalid account number or password",
		},
		{
			name:   "unauthenticated",
			err:    apperrors.NewUnauthenticatedError("token expired"),
			status: http.StatusUnauthorized,
			code:   dto.ErrorCodeUnauthorized,
			msg:    "token expired",
		},
		{
			name:   "forbidden",
			err:    fmt.Errorf("grade: %w", apperrors.NewForbiddenError("not your offering")),
			status: http.StatusForbidden,
			code:   dto.ErrorCodeForbidden,
			msg:    "not your offering",
		},
		{
			name:   "not found",
			err:    apperrors.NewResourceNotFoundError("student not found"),
			status: http.StatusNotFound,
			code:   dto.ErrorCodeResourceNotFound,
			msg:    "student not found",
		},
		{
			name:   "conflict",
			err:    apperrors.NewConflictError("already enrolled in this offering"),
			status: http.StatusConflict,
			code:   dto.ErrorCodeConflict,
			msg:    "already enrolled in this offering",
		},
		{
			name:   "validation sentinel",
			err:    apperrors.ErrValidationFailed,
			status: http.StatusBadRequest,
			code:   dto.ErrorCodeValidationFailed,
			msg:    "Validation failed",
		},
		{
			name:   "unknown",
			err:    errors.New("connection refused"),
			status: http.StatusInternalServerError,
			code:   dto.ErrorCodeInternalServer,
			msg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorDetailFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.msg, detail.Message)
		})
	}
}

func TestHandleAPIError_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/users", nil)

	err := apperrors.NewValidationError("missing profile fields").
		WithDetails(map[string]interface{}{"missing": []string{"Sname"}})
	HandleAPIError(c, err)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), body.Error.Code)
	assert.Equal(t, "missing profile fields", body.Error.Message)
	assert.Equal(t, []interface{}{"Sname"}, body.Error.Details["missing"])
}

func TestHandleAPIError_OmitsEmptyDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewConflictError("account already exists"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), `"details"`)
}

func TestHandleAPIError_UnauthorizedSetsChallenge(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	HandleAPIError(c, apperrors.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}
