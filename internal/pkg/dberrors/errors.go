package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

var (
	// ErrConstraintViolation is the common parent of every constraint failure
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUniqueViolation     = fmt.Errorf("%w: unique", ErrConstraintViolation)
	ErrForeignKeyViolation = fmt.Errorf("%w: foreign key", ErrConstraintViolation)
	ErrCheckViolation      = fmt.Errorf("%w: check", ErrConstraintViolation)
)

// ConstraintError carries the violated constraint name alongside its kind.
type ConstraintError struct {
	Kind       error
	Constraint string
	Cause      error
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// Classify turns a pg constraint failure into a ConstraintError and
// returns any other error unchanged.
func Classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var kind error
	switch pgErr.Code {
	case CodeUniqueViolation:
		kind = ErrUniqueViolation
	case CodeForeignKeyViolation:
		kind = ErrForeignKeyViolation
	case CodeCheckViolation:
		kind = ErrCheckViolation
	default:
		return err
	}

	return &ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Cause: err}
}

