package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	store  *repositories.Store
	jwt    *pkgAuth.JWTService
	hasher pkgAuth.PasswordHasher
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store *repositories.Store, jwt *pkgAuth.JWTService, hasher pkgAuth.PasswordHasher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		jwt:    jwt,
		hasher: hasher,
		logger: logger,
	}
}

// Login verifies credentials and issues an access token. Unknown accounts
// and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, accountNo, password string) (*dto.TokenResponse, error) {
	var resp *dto.TokenResponse
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		account, err := repos.Accounts.GetByAccountNo(ctx, accountNo)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.ErrInvalidCredentials
			}
			return fmt.Errorf("error loading account: %w", err)
		}

		if !s.hasher.Verify(password, account.PasswordHash) {
			return apperrors.ErrInvalidCredentials
		}

		token, err := s.jwt.IssueToken(account.AccountNo, account.Role)
		if err != nil {
			return err
		}

		resp = &dto.TokenResponse{
			AccessToken: token.AccessToken,
			TokenType:   "bearer",
			ExpiresIn:   token.ExpiresIn,
			Role:        account.Role.String(),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthenticated) {
			s.logger.Warn().Str("accountNo", accountNo).Msg("Login rejected")
		}
		return nil, err
	}

	s.logger.Info().Str("accountNo", accountNo).Str("role", resp.Role).Msg("Login succeeded")
	return resp, nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, id appAuth.Identity, oldPassword, newPassword string) error {
	if len(newPassword) < pkgAuth.MinPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("new password must be at least %d characters", pkgAuth.MinPasswordLength))
	}

	return s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		account, err := repos.Accounts.GetByAccountNo(ctx, id.AccountNo)
		if err != nil {
			return notFound(err, "account not found")
		}

		if !s.hasher.Verify(oldPassword, account.PasswordHash) {
			return apperrors.NewValidationError("current password is incorrect")
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		if err := repos.Accounts.UpdatePassword(ctx, id.AccountNo, hash); err != nil {
			return notFound(err, "account not found")
		}

		s.logger.Info().Str("accountNo", id.AccountNo).Msg("Password changed")
		return nil
	})
}
