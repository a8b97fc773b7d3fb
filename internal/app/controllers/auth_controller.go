// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/middleware"
	"github.com/yigit/sis/internal/pkg/apperrors"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService    *services.AuthService
	accountService *services.AccountService
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, accountService *services.AccountService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		accountService: accountService,
		logger:         logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Authenticates an account and returns a bearer access token. Accepts OAuth2 password-form fields (username, password) or JSON (account_no, password).
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	tokenResponse, err := c.authService.Login(ctx.Request.Context(), req.AccountNo, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tokenResponse))
}

// Me returns the caller's account. A token that outlives its account gets 404.
// @Summary Current identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Account no longer exists"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	account, err := c.accountService.Get(ctx.Request.Context(), id.AccountNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MeResponse{
		AccountNo: account.AccountNo,
		Role:      account.Role.String(),
		ExpiresAt: id.ExpiresAt,
	}))
}

// ChangePassword changes the caller's own password
// @Summary Change own password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 400 {object} dto.ErrorResponse "Wrong current password or new password too short"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /auth/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}

// requireIdentity reads the identity set by the auth middleware and answers
// 401 itself when there is none.
func requireIdentity(ctx *gin.Context) (appAuth.Identity, bool) {
	id, ok := middleware.IdentityFrom(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthenticatedError("Authentication required"))
		return appAuth.Identity{}, false
	}
	return id, true
}
