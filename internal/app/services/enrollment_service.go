package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	"github.com/yigit/sis/internal/pkg/dberrors"
)

// EnrollmentService enforces enrollment and grading rules
type EnrollmentService struct {
	store  *repositories.Store
	logger zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store *repositories.Store, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:  store,
		logger: logger,
	}
}

// studentFKConstraint names the sc to students foreign key
const studentFKConstraint = "sc_sno_fkey"

// Enroll registers the calling student in an offering. A repeated enrollment
// is detected by the primary key at insert time, not by a prior lookup.
func (s *EnrollmentService) Enroll(ctx context.Context, id appAuth.Identity, offering models.OfferingKey) error {
	if _, err := appAuth.RequireRole(id, models.RoleStudent); err != nil {
		return err
	}
	key := models.EnrollmentKey{Sno: id.AccountNo, Cno: offering.Cno, Tno: offering.Tno}

	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		exists, err := repos.Courses.Exists(ctx, offering)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NewResourceNotFoundError("course offering not found")
		}

		return repos.Enrollments.Create(ctx, key)
	})
	if err != nil {
		switch {
		case errors.Is(err, dberrors.ErrUniqueViolation):
			return apperrors.NewConflictError("already enrolled in this offering")
		case errors.Is(err, dberrors.ErrForeignKeyViolation):
			var ce *dberrors.ConstraintError
			if errors.As(err, &ce) && ce.Constraint == studentFKConstraint {
				return apperrors.NewResourceNotFoundError("student not found")
			}
			return apperrors.NewResourceNotFoundError("course offering not found")
		}
		return err
	}

	s.logger.Info().Str("sno", key.Sno).Str("cno", key.Cno).Str("tno", key.Tno).Msg("Enrolled")
	return nil
}

// Unenroll removes an enrollment. Students may only remove their own; admins
// may remove any.
func (s *EnrollmentService) Unenroll(ctx context.Context, id appAuth.Identity, key models.EnrollmentKey) error {
	if !appAuth.CanUnenroll(id, key.Sno) {
		return apperrors.NewForbiddenError("not allowed to remove this enrollment")
	}

	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return notFound(repos.Enrollments.Delete(ctx, key), "enrollment not found")
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("by", id.AccountNo).Str("sno", key.Sno).Str("cno", key.Cno).Str("tno", key.Tno).Msg("Unenrolled")
	return nil
}

// SetGrade stores or clears a grade. Ownership is checked before existence,
// so a teacher grading another teacher's offering gets Forbidden even when
// the record exists.
func (s *EnrollmentService) SetGrade(ctx context.Context, id appAuth.Identity, key models.EnrollmentKey, input dto.GradeInput) (*models.Enrollment, error) {
	grade, err := input.Value()
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if !appAuth.CanGrade(id, key.Tno) {
		return nil, apperrors.NewForbiddenError("not allowed to grade this offering")
	}

	var updated *models.Enrollment
	err = s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := repos.Enrollments.SetGrade(ctx, key, grade); err != nil {
			if errors.Is(err, dberrors.ErrCheckViolation) {
				return apperrors.NewValidationError("grade out of range")
			}
			return notFound(err, "enrollment not found")
		}

		e, err := repos.Enrollments.Get(ctx, key)
		if err != nil {
			return notFound(err, "enrollment not found")
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := s.logger.Info().Str("by", id.AccountNo).Str("sno", key.Sno).Str("cno", key.Cno).Str("tno", key.Tno)
	if grade != nil {
		ev = ev.Int("grade", *grade)
	}
	ev.Msg("Grade set")
	return updated, nil
}

// List returns the joined enrollment view narrowed by the caller's role:
// students see only their own rows, teachers only their own offerings.
func (s *EnrollmentService) List(ctx context.Context, id appAuth.Identity, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	switch id.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		filter.Tno = id.AccountNo
	case models.RoleStudent:
		filter.Sno = id.AccountNo
	default:
		return nil, apperrors.NewForbiddenError("unknown role")
	}

	var rows []*models.EnrollmentDetail
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		list, err := repos.Enrollments.ListJoined(ctx, filter)
		rows = list
		return err
	})
	return rows, err
}

