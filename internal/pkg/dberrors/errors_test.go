package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code string
		kind error
	}{
		{name: "unique", code: CodeUniqueViolation, kind: ErrUniqueViolation},
		{name: "foreign key", code: CodeForeignKeyViolation, kind: ErrForeignKeyViolation},
		{name: "check", code: CodeCheckViolation, kind: ErrCheckViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code, ConstraintName: "some_constraint"}
			err := Classify(fmt.Errorf("exec: %w", pgErr))

			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, ErrConstraintViolation)

			var ce *ConstraintError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "some_constraint", ce.Constraint)

			var back *pgconn.PgError
			assert.ErrorAs(t, err, &back)
		})
	}
}

func TestClassify_KindsAreDistinct(t *testing.T) {
	err := Classify(&pgconn.PgError{Code: CodeUniqueViolation})
	assert.False(t, errors.Is(err, ErrForeignKeyViolation))
	assert.False(t, errors.Is(err, ErrCheckViolation))
}

func TestClassify_PassThrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, Classify(plain))

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), Classify(other))
	assert.False(t, errors.Is(Classify(other), ErrConstraintViolation))
}
