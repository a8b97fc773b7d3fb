package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/sis/internal/db"
)

// ErrNotFound is returned by repositories when a keyed row does not exist
var ErrNotFound = errors.New("record not found")

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repositories holds all the repository instances bound to one DBTX
type Repositories struct {
	Accounts    *AccountRepository
	Students    *StudentRepository
	Teachers    *TeacherRepository
	Courses     *CourseRepository
	Enrollments *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn DBTX) *Repositories {
	return &Repositories{
		Accounts:    NewAccountRepository(conn),
		Students:    NewStudentRepository(conn),
		Teachers:    NewTeacherRepository(conn),
		Courses:     NewCourseRepository(conn),
		Enrollments: NewEnrollmentRepository(conn),
	}
}

// Store hands out transaction-scoped repositories
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
