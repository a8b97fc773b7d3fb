package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/repositories"
)

// TeacherService handles teacher profile operations
type TeacherService struct {
	store  *repositories.Store
	logger zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(store *repositories.Store, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		store:  store,
		logger: logger,
	}
}

// List returns every teacher ordered by number
func (s *TeacherService) List(ctx context.Context) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		list, err := repos.Teachers.List(ctx)
		teachers = list
		return err
	})
	return teachers, err
}

// Get returns one teacher profile
func (s *TeacherService) Get(ctx context.Context, tno string) (*models.Teacher, error) {
	var teacher *models.Teacher
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		t, err := repos.Teachers.GetByTno(ctx, tno)
		if err != nil {
			return notFound(err, "teacher not found")
		}
		teacher = t
		return nil
	})
	return teacher, err
}

// Update applies a partial update
func (s *TeacherService) Update(ctx context.Context, tno string, upd models.TeacherUpdate) (*models.Teacher, error) {
	if upd.Empty() {
		return s.Get(ctx, tno)
	}

	var teacher *models.Teacher
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		t, err := repos.Teachers.Update(ctx, tno, upd)
		if err != nil {
			return notFound(err, "teacher not found")
		}
		teacher = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("tno", tno).Msg("Teacher profile updated")
	return teacher, nil
}
