package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/pkg/apperrors"
	"github.com/yigit/sis/internal/pkg/logger"
)

// HandleAPIError maps a service error onto its HTTP status and error body.
// Errors outside the taxonomy become 500 with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	msg, hasMsg := apperrors.MessageOf(err)
	pick := func(fallback string) string {
		if hasMsg {
			return msg
		}
		return fallback
	}

	var details map[string]interface{}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		details = ce.Details
	}

	var detail *dto.ErrorDetail
	var status int
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, pick("Invalid credentials"))
	case errors.Is(err, apperrors.ErrUnauthenticated):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeUnauthorized, pick("Authentication required"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
		detail = dto.NewErrorDetail(dto.ErrorCodeForbidden, pick("Permission denied"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, pick("Resource not found"))
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
		detail = dto.NewErrorDetail(dto.ErrorCodeConflict, pick("Conflict"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, pick("Validation failed"))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}

	if len(details) > 0 {
		detail.WithDetails(details)
	}
	return status, detail
}

// HandleBindError reports a request binding failure as 400
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
