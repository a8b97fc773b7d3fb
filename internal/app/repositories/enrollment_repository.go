package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/dberrors"
	"github.com/yigit/sis/internal/pkg/helpers"
	"github.com/yigit/sis/internal/pkg/logger"
)

// EnrollmentRepository handles sc (enrollment) database operations
type EnrollmentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: newBuilder(),
	}
}

func keyEq(key models.EnrollmentKey) squirrel.Eq {
	return squirrel.Eq{"sno": key.Sno, "cno": key.Cno, "tno": key.Tno}
}

// Create inserts an ungraded enrollment. The primary key makes a second
// insert of the same key fail with dberrors.ErrUniqueViolation; a missing
// student or offering fails with dberrors.ErrForeignKeyViolation.
func (r *EnrollmentRepository) Create(ctx context.Context, key models.EnrollmentKey) error {
	sql, args, err := r.sb.Insert("sc").
		Columns("sno", "cno", "tno").
		Values(key.Sno, key.Cno, key.Tno).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create enrollment SQL")
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		cerr := dberrors.Classify(err)
		if errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("sno", key.Sno).Str("cno", key.Cno).Str("tno", key.Tno).Msg("Error executing create enrollment query")
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// Get retrieves one enrollment record
func (r *EnrollmentRepository) Get(ctx context.Context, key models.EnrollmentKey) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select("sno", "cno", "tno", "grade").
		From("sc").
		Where(keyEq(key)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get enrollment SQL")
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	var e models.Enrollment
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.Sno, &e.Cno, &e.Tno, &e.Grade); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("sno", key.Sno).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error getting enrollment: %w", err)
	}

	return &e, nil
}

// Delete removes one enrollment record
func (r *EnrollmentRepository) Delete(ctx context.Context, key models.EnrollmentKey) error {
	sql, args, err := r.sb.Delete("sc").Where(keyEq(key)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete enrollment SQL")
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sno", key.Sno).Str("cno", key.Cno).Str("tno", key.Tno).Msg("Error deleting enrollment")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetGrade stores grade, or NULL when grade is nil
func (r *EnrollmentRepository) SetGrade(ctx context.Context, key models.EnrollmentKey, grade *int) error {
	sql, args, err := r.sb.Update("sc").
		Set("grade", grade).
		Where(keyEq(key)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set grade SQL")
		return fmt.Errorf("failed to build set grade query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if cerr := dberrors.Classify(err); errors.Is(cerr, dberrors.ErrConstraintViolation) {
			return cerr
		}
		logger.Error().Err(err).Str("sno", key.Sno).Msg("Error setting grade")
		return fmt.Errorf("error setting grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountsByOffering returns the enrollment count of every offering that has
// at least one enrollment, computed in a single grouped query. A non-empty
// tno restricts the aggregation to that teacher's offerings.
func (r *EnrollmentRepository) CountsByOffering(ctx context.Context, tno string) (map[models.OfferingKey]int, error) {
	q := r.sb.Select("cno", "tno", "COUNT(*)").
		From("sc").
		GroupBy("cno", "tno")
	if tno != "" {
		q = q.Where(squirrel.Eq{"tno": tno})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building enrollment counts SQL")
		return nil, fmt.Errorf("failed to build enrollment counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing enrollment counts query")
		return nil, fmt.Errorf("error counting enrollments: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.OfferingKey]int)
	for rows.Next() {
		var (
			key models.OfferingKey
			n   int
		)
		if err := rows.Scan(&key.Cno, &key.Tno, &n); err != nil {
			return nil, fmt.Errorf("error scanning enrollment count: %w", err)
		}
		counts[key] = n
	}

	return counts, rows.Err()
}

// OfferingsOf returns the set of offerings a student is enrolled in
func (r *EnrollmentRepository) OfferingsOf(ctx context.Context, sno string) (map[models.OfferingKey]struct{}, error) {
	sql, args, err := r.sb.Select("cno", "tno").
		From("sc").
		Where(squirrel.Eq{"sno": sno}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student offerings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sno", sno).Msg("Error executing student offerings query")
		return nil, fmt.Errorf("error querying student offerings: %w", err)
	}
	defer rows.Close()

	selected := make(map[models.OfferingKey]struct{})
	for rows.Next() {
		var key models.OfferingKey
		if err := rows.Scan(&key.Cno, &key.Tno); err != nil {
			return nil, fmt.Errorf("error scanning student offering: %w", err)
		}
		selected[key] = struct{}{}
	}

	return selected, rows.Err()
}

// ListJoined returns enrollments joined with student, course and teacher
// names, narrowed by every non-empty filter field.
func (r *EnrollmentRepository) ListJoined(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	where := squirrel.And{}
	if filter.Sno != "" {
		where = append(where, squirrel.Eq{"sc.sno": filter.Sno})
	}
	if filter.Cno != "" {
		where = append(where, squirrel.Eq{"sc.cno": filter.Cno})
	}
	if filter.Tno != "" {
		where = append(where, squirrel.Eq{"sc.tno": filter.Tno})
	}
	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"sc.sno": pattern},
			squirrel.ILike{"s.sname": pattern},
		})
	}

	q := r.sb.Select(
		"sc.sno", "sc.cno", "sc.tno", "sc.grade",
		"s.sname", "c.cname", "c.ccredit", "t.tname",
	).
		From("sc").
		Join("students s ON s.sno = sc.sno").
		Join("courses c ON c.cno = sc.cno AND c.ctno = sc.tno").
		Join("teachers t ON t.tno = sc.tno").
		OrderBy("sc.cno ASC", "sc.tno ASC", "sc.sno ASC")
	if len(where) > 0 {
		q = q.Where(where)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building joined enrollments SQL")
		return nil, fmt.Errorf("failed to build joined enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing joined enrollments query")
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	details := []*models.EnrollmentDetail{}
	for rows.Next() {
		var d models.EnrollmentDetail
		if err := rows.Scan(
			&d.Sno, &d.Cno, &d.Tno, &d.Grade,
			&d.Sname, &d.Cname, &d.Ccredit, &d.Tname,
		); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		details = append(details, &d)
	}

	return details, rows.Err()
}
