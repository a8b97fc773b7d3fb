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

var courseColumns = []string{"cno", "ctno", "cname", "ccredit"}

// CourseRepository handles course offering database operations
type CourseRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: newBuilder(),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.Cno, &c.Ctno, &c.Cname, &c.Ccredit); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts an offering. A duplicate (cno, ctno) yields dberrors.ErrUniqueViolation
// and a missing teacher yields dberrors.ErrForeignKeyViolation.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns(courseColumns...).
		Values(course.Cno, course.Ctno, course.Cname, course.Ccredit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		cerr := dberrors.Classify(err)
		if errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("cno", course.Cno).Str("ctno", course.Ctno).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// Get retrieves one offering
func (r *CourseRepository) Get(ctx context.Context, key models.OfferingKey) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"cno": key.Cno, "ctno": key.Tno}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("cno", key.Cno).Str("ctno", key.Tno).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	return course, nil
}

// List returns offerings ordered by course code then teacher. A non-empty
// tno restricts the result to that teacher's offerings.
func (r *CourseRepository) List(ctx context.Context, tno string) ([]*models.Course, error) {
	q := r.sb.Select(courseColumns...).
		From("courses").
		OrderBy("cno ASC", "ctno ASC")
	if tno != "" {
		q = q.Where(squirrel.Eq{"ctno": tno})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// Delete removes an offering; its enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, key models.OfferingKey) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"cno": key.Cno, "ctno": key.Tno}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("cno", key.Cno).Str("ctno", key.Tno).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether an offering exists
func (r *CourseRepository) Exists(ctx context.Context, key models.OfferingKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE cno = $1 AND ctno = $2)`,
		key.Cno, key.Tno).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course existence: %w", err)
	}
	return exists, nil
}
