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

var teacherColumns = []string{"tno", "tname", "tdept", "tsex"}

// TeacherRepository handles teacher profile database operations
type TeacherRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db DBTX) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: newBuilder(),
	}
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	if err := row.Scan(&t.Tno, &t.Tname, &t.Tdept, &t.Tsex); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts the profile of an existing teacher account
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	sql, args, err := r.sb.Insert("teachers").
		Columns(teacherColumns...).
		Values(teacher.Tno, teacher.Tname, teacher.Tdept, teacher.Tsex).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create teacher SQL")
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		cerr := dberrors.Classify(err)
		if errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("tno", teacher.Tno).Msg("Error executing create teacher query")
		return fmt.Errorf("error creating teacher: %w", err)
	}

	return nil
}

// GetByTno retrieves a teacher profile
func (r *TeacherRepository) GetByTno(ctx context.Context, tno string) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherColumns...).
		From("teachers").
		Where(squirrel.Eq{"tno": tno}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get teacher SQL")
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("tno", tno).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}

	return teacher, nil
}

// List returns every teacher profile ordered by account number
func (r *TeacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	sql, args, err := r.sb.Select(teacherColumns...).
		From("teachers").
		OrderBy("tno ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list teachers SQL")
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teachers query")
		return nil, fmt.Errorf("error querying teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.Teacher{}
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning teacher: %w", err)
		}
		teachers = append(teachers, t)
	}

	return teachers, rows.Err()
}

// Update applies the set fields and returns the updated profile
func (r *TeacherRepository) Update(ctx context.Context, tno string, upd models.TeacherUpdate) (*models.Teacher, error) {
	if upd.Empty() {
		return r.GetByTno(ctx, tno)
	}

	set := squirrel.Eq{}
	if upd.Tname != nil {
		set["tname"] = *upd.Tname
	}
	if upd.Tdept != nil {
		set["tdept"] = *upd.Tdept
	}
	if upd.Tsex != nil {
		set["tsex"] = *upd.Tsex
	}

	sql, args, err := r.sb.Update("teachers").
		SetMap(set).
		Where(squirrel.Eq{"tno": tno}).
		Suffix("RETURNING tno, tname, tdept, tsex").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update teacher SQL")
		return nil, fmt.Errorf("failed to build update teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("tno", tno).Msg("Error updating teacher")
		return nil, fmt.Errorf("error updating teacher: %w", err)
	}

	return teacher, nil
}

// Exists reports whether a teacher profile exists
func (r *TeacherRepository) Exists(ctx context.Context, tno string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE tno = $1)`, tno).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking teacher existence: %w", err)
	}
	return exists, nil
}
