package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
	"github.com/yigit/sis/internal/pkg/dberrors"
)

// AccountService handles admin account management
type AccountService struct {
	store     *repositories.Store
	hasher    pkgAuth.PasswordHasher
	bootstrap string
	defaultPw string
	logger    zerolog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(store *repositories.Store, opts Options, logger zerolog.Logger) *AccountService {
	return &AccountService{
		store:     store,
		hasher:    opts.Hasher,
		bootstrap: opts.BootstrapAdminAccountNo,
		defaultPw: opts.DefaultPassword,
		logger:    logger,
	}
}

// DefaultPassword is the password given to accounts created or reset without one
func (s *AccountService) DefaultPassword() string {
	return s.defaultPw
}

// Create inserts the account and its role profile in one transaction, so a
// failing profile insert never leaves an orphaned account.
func (s *AccountService) Create(ctx context.Context, acc *dto.NewAccount) (*models.Account, error) {
	if len(acc.Password) < pkgAuth.MinPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", pkgAuth.MinPasswordLength))
	}

	hash, err := s.hasher.Hash(acc.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		AccountNo:    acc.AccountNo,
		PasswordHash: hash,
		Role:         acc.Role,
	}

	err = s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}

		switch acc.Role {
		case models.RoleStudent:
			if acc.Student == nil {
				return apperrors.NewValidationError("student profile is required")
			}
			return repos.Students.Create(ctx, acc.Student)
		case models.RoleTeacher:
			if acc.Teacher == nil {
				return apperrors.NewValidationError("teacher profile is required")
			}
			return repos.Teachers.Create(ctx, acc.Teacher)
		case models.RoleAdmin:
			return nil
		default:
			return apperrors.NewValidationError(fmt.Sprintf("unknown role %q", acc.Role))
		}
	})
	if err != nil {
		if errors.Is(err, dberrors.ErrUniqueViolation) {
			return nil, apperrors.NewConflictError("account already exists")
		}
		return nil, err
	}

	s.logger.Info().Str("accountNo", account.AccountNo).Str("role", account.Role.String()).Msg("Account created")
	return account, nil
}

// ResetPassword sets accountNo's password. A nil or empty password resets to
// the configured default; the returned flag reports which happened.
func (s *AccountService) ResetPassword(ctx context.Context, accountNo string, newPassword *string) (bool, error) {
	password, toDefault := s.defaultPw, true
	if newPassword != nil && *newPassword != "" {
		password, toDefault = *newPassword, false
	}
	if len(password) < pkgAuth.MinPasswordLength {
		return false, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", pkgAuth.MinPasswordLength))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return notFound(repos.Accounts.UpdatePassword(ctx, accountNo, hash), "account not found")
	})
	if err != nil {
		return false, err
	}

	s.logger.Info().Str("accountNo", accountNo).Bool("toDefault", toDefault).Msg("Password reset")
	return toDefault, nil
}

// Delete removes an account; the profile and dependent rows go with it by
// foreign-key cascade. The bootstrap admin cannot be deleted.
func (s *AccountService) Delete(ctx context.Context, accountNo string) error {
	if accountNo == s.bootstrap {
		return apperrors.NewConflictError("the bootstrap admin account cannot be deleted")
	}

	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return notFound(repos.Accounts.Delete(ctx, accountNo), "account not found")
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("accountNo", accountNo).Msg("Account deleted")
	return nil
}

// Get returns an account by number
func (s *AccountService) Get(ctx context.Context, accountNo string) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		a, err := repos.Accounts.GetByAccountNo(ctx, accountNo)
		if err != nil {
			return notFound(err, "account not found")
		}
		account = a
		return nil
	})
	return account, err
}

// CountByRole reports how many accounts each role has
func (s *AccountService) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	var counts map[models.Role]int
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		c, err := repos.Accounts.CountByRole(ctx)
		counts = c
		return err
	})
	return counts, err
}
