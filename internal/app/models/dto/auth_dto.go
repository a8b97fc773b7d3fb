package dto

import "time"

// LoginRequest accepts OAuth2 password-form fields or JSON
type LoginRequest struct {
	AccountNo string `form:"username" json:"account_no" binding:"required" example:"12345678"`
	Password  string `form:"password" json:"password" binding:"required" example:"admin123"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int    `json:"expires_in" example:"3600"`
	Role        string `json:"role" example:"student"`
}

// MeResponse describes the presented token's identity
type MeResponse struct {
	AccountNo string    `json:"account_no" example:"20230001"`
	Role      string    `json:"role" example:"student"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
