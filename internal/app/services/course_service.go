package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	"github.com/yigit/sis/internal/pkg/dberrors"
)

// CourseService handles course offerings
type CourseService struct {
	store  *repositories.Store
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store *repositories.Store, logger zerolog.Logger) *CourseService {
	return &CourseService{
		store:  store,
		logger: logger,
	}
}

// List returns offerings with live enrollment counts. A non-empty tno limits
// the result to that teacher's offerings. Counts come from one grouped query.
func (s *CourseService) List(ctx context.Context, tno string) ([]dto.CourseResponse, error) {
	var out []dto.CourseResponse
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		courses, err := repos.Courses.List(ctx, tno)
		if err != nil {
			return err
		}
		counts, err := repos.Enrollments.CountsByOffering(ctx, tno)
		if err != nil {
			return err
		}

		out = make([]dto.CourseResponse, 0, len(courses))
		for _, c := range courses {
			out = append(out, dto.CourseResponse{
				Course:   *c,
				Enrolled: counts[models.OfferingKey{Cno: c.Cno, Tno: c.Ctno}],
			})
		}
		return nil
	})
	return out, err
}

// ListForStudent returns every offering, flagging those sno is enrolled in.
func (s *CourseService) ListForStudent(ctx context.Context, sno string) ([]dto.CourseResponse, error) {
	var out []dto.CourseResponse
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		courses, err := repos.Courses.List(ctx, "")
		if err != nil {
			return err
		}
		counts, err := repos.Enrollments.CountsByOffering(ctx, "")
		if err != nil {
			return err
		}
		mine, err := repos.Enrollments.OfferingsOf(ctx, sno)
		if err != nil {
			return err
		}

		out = make([]dto.CourseResponse, 0, len(courses))
		for _, c := range courses {
			key := models.OfferingKey{Cno: c.Cno, Tno: c.Ctno}
			_, selected := mine[key]
			out = append(out, dto.CourseResponse{
				Course:   *c,
				Enrolled: counts[key],
				Selected: selected,
			})
		}
		return nil
	})
	return out, err
}

// Create adds an offering. The teacher must exist and the (Cno, Ctno) pair
// must be new.
func (s *CourseService) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	if course.Ccredit < 0 {
		return nil, apperrors.NewValidationError("Ccredit must not be negative")
	}

	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		exists, err := repos.Teachers.Exists(ctx, course.Ctno)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("teacher %s not found", course.Ctno))
		}

		return repos.Courses.Create(ctx, course)
	})
	if err != nil {
		switch {
		case errors.Is(err, dberrors.ErrUniqueViolation):
			return nil, apperrors.NewConflictError("course offering already exists")
		case errors.Is(err, dberrors.ErrForeignKeyViolation):
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("teacher %s not found", course.Ctno))
		}
		return nil, err
	}

	s.logger.Info().Str("cno", course.Cno).Str("ctno", course.Ctno).Msg("Course offering created")
	return course, nil
}

// Delete removes an offering and, by cascade, its enrollments
func (s *CourseService) Delete(ctx context.Context, key models.OfferingKey) error {
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		return notFound(repos.Courses.Delete(ctx, key), "course offering not found")
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("cno", key.Cno).Str("ctno", key.Tno).Msg("Course offering deleted")
	return nil
}
