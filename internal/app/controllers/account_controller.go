package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/middleware"
)

// AccountController handles admin account management
type AccountController struct {
	accountService *services.AccountService
	logger         zerolog.Logger
}

// NewAccountController creates a new AccountController
func NewAccountController(accountService *services.AccountService, logger zerolog.Logger) *AccountController {
	return &AccountController{
		accountService: accountService,
		logger:         logger,
	}
}

// CreateUser creates an account and its role profile
// @Summary Create account
// @Description Creates an account together with its student or teacher profile in one transaction. The password defaults to the configured default.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAccountRequest true "Account and profile"
// @Success 201 {object} dto.APIResponse{data=dto.AccountResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing profile fields or invalid input"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 409 {object} dto.ErrorResponse "Account already exists"
// @Router /admin/users [post]
func (c *AccountController) CreateUser(ctx *gin.Context) {
	var req dto.CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	acc, err := req.ToNewAccount(c.accountService.DefaultPassword())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	account, err := c.accountService.Create(ctx.Request.Context(), acc)
	if err != nil {
		c.logger.Warn().Err(err).Str("accountNo", acc.AccountNo).Msg("Create account failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.AccountResponse{
		AccountNo: account.AccountNo,
		Role:      account.Role.String(),
	}))
}

// ResetPassword sets another account's password
// @Summary Reset password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResetPasswordRequest true "Account and optional new password"
// @Success 200 {object} dto.APIResponse{data=dto.ResetPasswordResponse}
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /admin/users/reset-password [post]
func (c *AccountController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	toDefault, err := c.accountService.ResetPassword(ctx.Request.Context(), req.AccountNo, req.NewPassword)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ResetPasswordResponse{
		OK:             true,
		AccountNo:      req.AccountNo,
		ResetToDefault: toDefault,
	}))
}

// DeleteUser deletes an account and everything that depends on it
// @Summary Delete account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param account_no path string true "Account number"
// @Success 200 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Bootstrap admin cannot be deleted"
// @Router /admin/users/{account_no} [delete]
func (c *AccountController) DeleteUser(ctx *gin.Context) {
	if err := c.accountService.Delete(ctx.Request.Context(), ctx.Param("account_no")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}
