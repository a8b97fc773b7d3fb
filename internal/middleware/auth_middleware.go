package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/pkg/apperrors"
	"github.com/yigit/sis/internal/pkg/auth"
)

// identityKey is the gin context key holding the caller's appAuth.Identity
const identityKey = "identity"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	gate *appAuth.Gate
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(gate *appAuth.Gate) *AuthMiddleware {
	return &AuthMiddleware{
		gate: gate,
	}
}

// JWTAuth validates the bearer token and stores the caller's identity.
// Missing, malformed and expired tokens all abort with 401.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication required").
				WithDetails("Invalid token format")
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		id, err := m.gate.Authenticate(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
			}
			msg, _ := apperrors.MessageOf(err)
			errorDetail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(msg)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// RoleRequired aborts with 403 unless the caller's role is one of roles.
// It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User identity not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if _, err := appAuth.RequireRole(id, roles...); err != nil {
			msg, _ := apperrors.MessageOf(err)
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").WithDetails(msg)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// IdentityFrom returns the identity stored by JWTAuth
func IdentityFrom(c *gin.Context) (appAuth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return appAuth.Identity{}, false
	}
	id, ok := v.(appAuth.Identity)
	return id, ok
}
