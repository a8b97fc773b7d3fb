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

var studentColumns = []string{"sno", "sname", "ssex", "sage", "sdept"}

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: newBuilder(),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	if err := row.Scan(&s.Sno, &s.Sname, &s.Ssex, &s.Sage, &s.Sdept); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the profile of an existing student account
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(student.Sno, student.Sname, student.Ssex, student.Sage, student.Sdept).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		cerr := dberrors.Classify(err)
		if errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("sno", student.Sno).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetBySno retrieves a student profile
func (r *StudentRepository) GetBySno(ctx context.Context, sno string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"sno": sno}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("sno", sno).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	return student, nil
}

// List returns every student profile ordered by account number
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("sno ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// Update applies the set fields and returns the updated profile
func (r *StudentRepository) Update(ctx context.Context, sno string, upd models.StudentUpdate) (*models.Student, error) {
	if upd.Empty() {
		return r.GetBySno(ctx, sno)
	}

	set := squirrel.Eq{}
	if upd.Sname != nil {
		set["sname"] = *upd.Sname
	}
	if upd.Ssex != nil {
		set["ssex"] = *upd.Ssex
	}
	if upd.Sage != nil {
		set["sage"] = *upd.Sage
	}
	if upd.Sdept != nil {
		set["sdept"] = *upd.Sdept
	}

	sql, args, err := r.sb.Update("students").
		SetMap(set).
		Where(squirrel.Eq{"sno": sno}).
		Suffix("RETURNING sno, sname, ssex, sage, sdept").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if cerr := dberrors.Classify(err); errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return nil, cerr
		}
		logger.Error().Err(err).Str("sno", sno).Msg("Error updating student")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}
