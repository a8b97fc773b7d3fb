package services

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: login and password changes
// - AccountService: admin account lifecycle
// - StudentService, TeacherService: profile reads and updates
// - CourseService: offerings and live enrollment counts
// - EnrollmentService: enrollment, unenrollment and grading
// - ExportService: spreadsheet export of the enrollment view

// Services bundles every service for dependency wiring
type Services struct {
	Auth        *AuthService
	Accounts    *AccountService
	Students    *StudentService
	Teachers    *TeacherService
	Courses     *CourseService
	Enrollments *EnrollmentService
	Export      *ExportService
}

// Options carries the settings services need from configuration
type Options struct {
	BootstrapAdminAccountNo string
	DefaultPassword         string
	Hasher                  pkgAuth.PasswordHasher
}

// NewServices wires every service over one store
func NewServices(store *repositories.Store, jwt *pkgAuth.JWTService, opts Options, lgr zerolog.Logger) *Services {
	return &Services{
		Auth:        NewAuthService(store, jwt, opts.Hasher, lgr),
		Accounts:    NewAccountService(store, opts, lgr),
		Students:    NewStudentService(store, lgr),
		Teachers:    NewTeacherService(store, lgr),
		Courses:     NewCourseService(store, lgr),
		Enrollments: NewEnrollmentService(store, lgr),
		Export:      NewExportService(),
	}
}

// notFound maps a repository miss to a NotFound error carrying msg
func notFound(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewResourceNotFoundError(msg)
	}
	return err
}
