package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/dberrors"
	"github.com/yigit/sis/internal/pkg/logger"
)

// AccountRepository handles account database operations
type AccountRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{
		db: db,
		sb: newBuilder(),
	}
}

// Create inserts an account. A taken account number yields dberrors.ErrUniqueViolation.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	sql, args, err := r.sb.Insert("users").
		Columns("account_no", "password_hash", "role").
		Values(account.AccountNo, account.PasswordHash, string(account.Role)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create account SQL")
		return fmt.Errorf("failed to build create account query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&account.ID); err != nil {
		cerr := dberrors.Classify(err)
		if errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("accountNo", account.AccountNo).Msg("Error executing create account query")
		return fmt.Errorf("error creating account: %w", err)
	}

	return nil
}

// GetByAccountNo retrieves an account by its account number
func (r *AccountRepository) GetByAccountNo(ctx context.Context, accountNo string) (*models.Account, error) {
	sql, args, err := r.sb.Select("id", "account_no", "password_hash", "role").
		From("users").
		Where(squirrel.Eq{"account_no": accountNo}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get account SQL")
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	var (
		account models.Account
		role    string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(&account.ID, &account.AccountNo, &account.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("accountNo", accountNo).Msg("Error scanning account row")
		return nil, fmt.Errorf("error getting account: %w", err)
	}

	account.Role, err = models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountNo, err)
	}

	return &account, nil
}

// UpdatePassword replaces the stored hash
func (r *AccountRepository) UpdatePassword(ctx context.Context, accountNo, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"account_no": accountNo}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update password SQL")
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("accountNo", accountNo).Msg("Error updating password")
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an account; the database cascades to its profile and enrollments.
func (r *AccountRepository) Delete(ctx context.Context, accountNo string) error {
	sql, args, err := r.sb.Delete("users").
		Where(squirrel.Eq{"account_no": accountNo}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete account SQL")
		return fmt.Errorf("failed to build delete account query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("accountNo", accountNo).Msg("Error deleting account")
		return fmt.Errorf("error deleting account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountByRole returns how many accounts hold each role
func (r *AccountRepository) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	sql, args, err := r.sb.Select("role", "COUNT(*)").
		From("users").
		GroupBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count accounts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting accounts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Role]int, len(models.Roles))
	for rows.Next() {
		var (
			role string
			n    int
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("error scanning account count: %w", err)
		}
		counts[models.Role(role)] = n
	}

	return counts, rows.Err()
}
