package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/repositories"
)

// StudentService handles student profile operations
type StudentService struct {
	store  *repositories.Store
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(store *repositories.Store, logger zerolog.Logger) *StudentService {
	return &StudentService{
		store:  store,
		logger: logger,
	}
}

// List returns every student ordered by number
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		list, err := repos.Students.List(ctx)
		students = list
		return err
	})
	return students, err
}

// Get returns one student profile
func (s *StudentService) Get(ctx context.Context, sno string) (*models.Student, error) {
	var student *models.Student
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		st, err := repos.Students.GetBySno(ctx, sno)
		if err != nil {
			return notFound(err, "student not found")
		}
		student = st
		return nil
	})
	return student, err
}

// Update applies a partial update. An empty update returns the current profile.
func (s *StudentService) Update(ctx context.Context, sno string, upd models.StudentUpdate) (*models.Student, error) {
	if upd.Empty() {
		return s.Get(ctx, sno)
	}

	var student *models.Student
	err := s.store.InTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		st, err := repos.Students.Update(ctx, sno, upd)
		if err != nil {
			return notFound(err, "student not found")
		}
		student = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sno", sno).Msg("Student profile updated")
	return student, nil
}
