package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/sis/internal/app/models"
	appRepos "github.com/yigit/sis/internal/app/repositories"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
	"github.com/yigit/sis/internal/pkg/dberrors"
)

// AdminSeed describes the bootstrap admin account
type AdminSeed struct {
	AccountNo string
	Password  string
	Hasher    pkgAuth.PasswordHasher
}

// EnsureBootstrapAdmin creates the bootstrap admin if no account with its
// number exists. It never changes an existing account, so restarting the
// service does not reset the admin password. The returned flag reports
// whether an account was created.
func EnsureBootstrapAdmin(ctx context.Context, store *appRepos.Store, admin AdminSeed, lgr zerolog.Logger) (bool, error) {
	created := false
	err := store.InTx(ctx, func(ctx context.Context, repos *appRepos.Repositories) error {
		existing, err := repos.Accounts.GetByAccountNo(ctx, admin.AccountNo)
		switch {
		case err == nil:
			if existing.Role != appModels.RoleAdmin {
				lgr.Warn().Str("accountNo", admin.AccountNo).Str("role", existing.Role.String()).
					Msg("Bootstrap admin account number is held by a non-admin account")
			}
			return nil
		case !errors.Is(err, appRepos.ErrNotFound):
			return fmt.Errorf("error looking up bootstrap admin: %w", err)
		}

		hash, err := admin.Hasher.Hash(admin.Password)
		if err != nil {
			return fmt.Errorf("error hashing bootstrap admin password: %w", err)
		}

		account := &appModels.Account{
			AccountNo:    admin.AccountNo,
			PasswordHash: hash,
			Role:         appModels.RoleAdmin,
		}
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		// Another instance created it between our lookup and insert.
		if errors.Is(err, dberrors.ErrUniqueViolation) {
			return false, nil
		}
		return false, err
	}

	if created {
		lgr.Info().Str("accountNo", admin.AccountNo).Msg("Bootstrap admin created")
	} else {
		lgr.Debug().Str("accountNo", admin.AccountNo).Msg("Bootstrap admin already present")
	}
	return created, nil
}
