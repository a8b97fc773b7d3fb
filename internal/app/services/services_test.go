package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/repositories"
	"github.com/yigit/sis/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/sis/internal/pkg/auth"
	"github.com/yigit/sis/internal/testutil/testdb"
)

const bootstrapAdmin = "admin"

type fixture struct {
	svc   *Services
	jwt   *pkgAuth.JWTService
	store *repositories.Store
	pg    *testdb.PostgresContainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pg := testdb.SetupSharedPostgres(t)
	pg.Reset(t)

	store := repositories.NewStore(pg.Pool)
	jwt := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      "services-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "sis-test",
	})
	svc := NewServices(store, jwt, Options{
		BootstrapAdminAccountNo: bootstrapAdmin,
		DefaultPassword:         "123456",
		Hasher:                  pkgAuth.PasswordHasher{Cost: bcrypt.MinCost},
	}, zerolog.Nop())

	return &fixture{svc: svc, jwt: jwt, store: store, pg: pg}
}

func (f *fixture) student(t *testing.T, sno, name string) appAuth.Identity {
	t.Helper()
	_, err := f.svc.Accounts.Create(context.Background(), &dto.NewAccount{
		AccountNo: sno,
		Password:  "123456",
		Role:      models.RoleStudent,
		Student:   &models.Student{Sno: sno, Sname: name, Ssex: "F", Sdept: "CS"},
	})
	require.NoError(t, err)
	return appAuth.Identity{AccountNo: sno, Role: models.RoleStudent}
}

func (f *fixture) teacher(t *testing.T, tno, name string) appAuth.Identity {
	t.Helper()
	_, err := f.svc.Accounts.Create(context.Background(), &dto.NewAccount{
		AccountNo: tno,
		Password:  "123456",
		Role:      models.RoleTeacher,
		Teacher:   &models.Teacher{Tno: tno, Tname: name},
	})
	require.NoError(t, err)
	return appAuth.Identity{AccountNo: tno, Role: models.RoleTeacher}
}

func (f *fixture) course(t *testing.T, cno, tno string) models.OfferingKey {
	t.Helper()
	_, err := f.svc.Courses.Create(context.Background(), &models.Course{Cno: cno, Ctno: tno, Cname: "Course " + cno, Ccredit: 3})
	require.NoError(t, err)
	return models.OfferingKey{Cno: cno, Tno: tno}
}

func enrolledIn(courses []dto.CourseResponse, key models.OfferingKey) (int, bool) {
	for _, c := range courses {
		if c.Cno == key.Cno && c.Ctno == key.Tno {
			return c.Enrolled, c.Selected
		}
	}
	return -1, false
}

func TestAuthService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S001", "Alice")

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := f.svc.Auth.Login(ctx, "S001", "wrong-password")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		_, err := f.svc.Auth.Login(ctx, "S404", "123456")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("Success", func(t *testing.T) {
		tok, err := f.svc.Auth.Login(ctx, "S001", "123456")
		require.NoError(t, err)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.Equal(t, "student", tok.Role)

		claims, err := f.jwt.ValidateAndExtractClaims(tok.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "S001", claims.AccountNo)
		assert.Equal(t, "student", claims.Role)
	})

	t.Run("ChangePassword", func(t *testing.T) {
		id := appAuth.Identity{AccountNo: "S001", Role: models.RoleStudent}

		err := f.svc.Auth.ChangePassword(ctx, id, "123456", "short")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		err = f.svc.Auth.ChangePassword(ctx, id, "not-it", "newpass1")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		require.NoError(t, f.svc.Auth.ChangePassword(ctx, id, "123456", "newpass1"))
		_, err = f.svc.Auth.Login(ctx, "S001", "123456")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		_, err = f.svc.Auth.Login(ctx, "S001", "newpass1")
		assert.NoError(t, err)
	})
}

func TestAccountService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("BootstrapAdminCannotBeDeleted", func(t *testing.T) {
		_, err := f.svc.Accounts.Create(ctx, &dto.NewAccount{AccountNo: bootstrapAdmin, Password: "123456", Role: models.RoleAdmin})
		require.NoError(t, err)

		err = f.svc.Accounts.Delete(ctx, bootstrapAdmin)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		acc, err := f.svc.Accounts.Get(ctx, bootstrapAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, acc.Role)
	})

	t.Run("DuplicateAccount", func(t *testing.T) {
		f.student(t, "S001", "Alice")
		_, err := f.svc.Accounts.Create(ctx, &dto.NewAccount{
			AccountNo: "S001",
			Password:  "123456",
			Role:      models.RoleTeacher,
			Teacher:   &models.Teacher{Tno: "S001", Tname: "Impostor"},
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("MissingProfileLeavesNoAccount", func(t *testing.T) {
		_, err := f.svc.Accounts.Create(ctx, &dto.NewAccount{AccountNo: "S002", Password: "123456", Role: models.RoleStudent})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = f.svc.Accounts.Get(ctx, "S002")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		_, err := f.svc.Accounts.Create(ctx, &dto.NewAccount{AccountNo: "A009", Password: "12345", Role: models.RoleAdmin})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("ResetPassword", func(t *testing.T) {
		f.student(t, "S003", "Carol")
		custom := "custom-pass"
		toDefault, err := f.svc.Accounts.ResetPassword(ctx, "S003", &custom)
		require.NoError(t, err)
		assert.False(t, toDefault)
		_, err = f.svc.Auth.Login(ctx, "S003", custom)
		require.NoError(t, err)

		toDefault, err = f.svc.Accounts.ResetPassword(ctx, "S003", nil)
		require.NoError(t, err)
		assert.True(t, toDefault)
		_, err = f.svc.Auth.Login(ctx, "S003", f.svc.Accounts.DefaultPassword())
		require.NoError(t, err)

		_, err = f.svc.Accounts.ResetPassword(ctx, "S404", nil)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("DeleteCascadesEnrollments", func(t *testing.T) {
		f.teacher(t, "T001", "Dr. Smith")
		dave := f.student(t, "S010", "Dave")
		key := f.course(t, "CS101", "T001")
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, dave, key))

		require.NoError(t, f.svc.Accounts.Delete(ctx, "S010"))

		list, err := f.svc.Courses.List(ctx, "")
		require.NoError(t, err)
		n, _ := enrolledIn(list, key)
		assert.Zero(t, n)
		_, err = f.svc.Students.Get(ctx, "S010")
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

		assert.ErrorIs(t, f.svc.Accounts.Delete(ctx, "S010"), apperrors.ErrResourceNotFound)
	})

	t.Run("CountByRole", func(t *testing.T) {
		before, err := f.svc.Accounts.CountByRole(ctx)
		require.NoError(t, err)

		f.student(t, "S020", "Erin")

		after, err := f.svc.Accounts.CountByRole(ctx)
		require.NoError(t, err)
		assert.Equal(t, before[models.RoleStudent]+1, after[models.RoleStudent])
		assert.Equal(t, before[models.RoleTeacher], after[models.RoleTeacher])
		assert.Equal(t, before[models.RoleAdmin], after[models.RoleAdmin])
	})
}

func TestCourseService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.teacher(t, "T001", "Dr. Smith")
	f.teacher(t, "T002", "Dr. Jones")

	first := f.course(t, "CS101", "T001")

	_, err := f.svc.Courses.Create(ctx, &models.Course{Cno: "CS101", Ctno: "T001", Cname: "Again", Ccredit: 3})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	second := f.course(t, "CS101", "T002")

	_, err = f.svc.Courses.Create(ctx, &models.Course{Cno: "CS102", Ctno: "T999", Cname: "Orphan", Ccredit: 3})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.Courses.Create(ctx, &models.Course{Cno: "CS103", Ctno: "T001", Cname: "Negative", Ccredit: -1})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	alice := f.student(t, "S001", "Alice")
	require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, first))

	list, err := f.svc.Courses.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	n, _ := enrolledIn(list, first)
	assert.Equal(t, 1, n)
	n, _ = enrolledIn(list, second)
	assert.Equal(t, 0, n)

	mine, err := f.svc.Courses.List(ctx, "T002")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	forAlice, err := f.svc.Courses.ListForStudent(ctx, "S001")
	require.NoError(t, err)
	_, selected := enrolledIn(forAlice, first)
	assert.True(t, selected)
	_, selected = enrolledIn(forAlice, second)
	assert.False(t, selected)

	require.NoError(t, f.svc.Courses.Delete(ctx, first))
	assert.ErrorIs(t, f.svc.Courses.Delete(ctx, first), apperrors.ErrResourceNotFound)

	list, err = f.svc.Courses.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	n, _ = enrolledIn(list, first)
	assert.Equal(t, -1, n)
	n, _ = enrolledIn(list, second)
	assert.Equal(t, 0, n)
}

func TestEnrollmentService(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateEnrollIsConflict", func(t *testing.T) {
		f := newFixture(t)
		f.teacher(t, "T001", "Dr. Smith")
		alice := f.student(t, "S001", "Alice")
		key := f.course(t, "CS101", "T001")

		require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, key))
		err := f.svc.Enrollments.Enroll(ctx, alice, key)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		rows, err := f.svc.Enrollments.List(ctx, alice, models.EnrollmentFilter{})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("EnrollMissingOffering", func(t *testing.T) {
		f := newFixture(t)
		alice := f.student(t, "S001", "Alice")
		err := f.svc.Enrollments.Enroll(ctx, alice, models.OfferingKey{Cno: "XX1", Tno: "T001"})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("EnrollAfterStudentDeletedIsStudentNotFound", func(t *testing.T) {
		f := newFixture(t)
		f.teacher(t, "T001", "Dr. Smith")
		alice := f.student(t, "S001", "Alice")
		key := f.course(t, "CS101", "T001")
		require.NoError(t, f.svc.Accounts.Delete(ctx, "S001"))

		err := f.svc.Enrollments.Enroll(ctx, alice, key)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
		msg, ok := apperrors.MessageOf(err)
		assert.True(t, ok)
		assert.Equal(t, "student not found", msg)
	})

	t.Run("OnlyStudentsEnroll", func(t *testing.T) {
		f := newFixture(t)
		smith := f.teacher(t, "T001", "Dr. Smith")
		key := f.course(t, "CS101", "T001")
		assert.ErrorIs(t, f.svc.Enrollments.Enroll(ctx, smith, key), apperrors.ErrPermissionDenied)
	})

	t.Run("CountsFollowUnenroll", func(t *testing.T) {
		f := newFixture(t)
		f.teacher(t, "T001", "Dr. Smith")
		alice := f.student(t, "S001", "Alice")
		bob := f.student(t, "S002", "Bob")
		key := f.course(t, "CS101", "T001")
		ekey := models.EnrollmentKey{Sno: "S001", Cno: key.Cno, Tno: key.Tno}

		require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, key))
		list, err := f.svc.Courses.List(ctx, "")
		require.NoError(t, err)
		n, _ := enrolledIn(list, key)
		assert.Equal(t, 1, n)

		assert.ErrorIs(t, f.svc.Enrollments.Unenroll(ctx, bob, ekey), apperrors.ErrPermissionDenied)

		require.NoError(t, f.svc.Enrollments.Unenroll(ctx, alice, ekey))
		list, err = f.svc.Courses.List(ctx, "")
		require.NoError(t, err)
		n, _ = enrolledIn(list, key)
		assert.Equal(t, 0, n)

		assert.ErrorIs(t, f.svc.Enrollments.Unenroll(ctx, alice, ekey), apperrors.ErrResourceNotFound)
	})

	t.Run("GradeNullVersusZero", func(t *testing.T) {
		f := newFixture(t)
		smith := f.teacher(t, "T001", "Dr. Smith")
		alice := f.student(t, "S001", "Alice")
		key := f.course(t, "CS101", "T001")
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, key))
		ekey := models.EnrollmentKey{Sno: "S001", Cno: "CS101", Tno: "T001"}

		e, err := f.svc.Enrollments.SetGrade(ctx, smith, ekey, dto.NewGradeInput("0"))
		require.NoError(t, err)
		require.NotNil(t, e.Grade)
		assert.Equal(t, 0, *e.Grade)

		e, err = f.svc.Enrollments.SetGrade(ctx, smith, ekey, dto.NewGradeInput(""))
		require.NoError(t, err)
		assert.Nil(t, e.Grade)

		_, err = f.svc.Enrollments.SetGrade(ctx, smith, ekey, dto.NewGradeInput("101"))
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		e, err = f.svc.Enrollments.SetGrade(ctx, appAuth.Identity{AccountNo: bootstrapAdmin, Role: models.RoleAdmin}, ekey, dto.NewGradeInput("77"))
		require.NoError(t, err)
		require.NotNil(t, e.Grade)
		assert.Equal(t, 77, *e.Grade)
	})

	t.Run("GradingAnotherTeachersOfferingIsForbidden", func(t *testing.T) {
		f := newFixture(t)
		f.teacher(t, "T001", "Dr. Smith")
		jones := f.teacher(t, "T002", "Dr. Jones")
		alice := f.student(t, "S001", "Alice")
		key := f.course(t, "CS101", "T001")
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, key))

		_, err := f.svc.Enrollments.SetGrade(ctx, jones, models.EnrollmentKey{Sno: "S001", Cno: "CS101", Tno: "T001"}, dto.NewGradeInput("90"))
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = f.svc.Enrollments.SetGrade(ctx, jones, models.EnrollmentKey{Sno: "S001", Cno: "CS101", Tno: "T002"}, dto.NewGradeInput("90"))
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("ListIsScopedByRole", func(t *testing.T) {
		f := newFixture(t)
		smith := f.teacher(t, "T001", "Dr. Smith")
		f.teacher(t, "T002", "Dr. Jones")
		alice := f.student(t, "S001", "Alice")
		bob := f.student(t, "S002", "Bob")
		cs := f.course(t, "CS101", "T001")
		ma := f.course(t, "MA201", "T002")
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, alice, cs))
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, bob, cs))
		require.NoError(t, f.svc.Enrollments.Enroll(ctx, bob, ma))

		rows, err := f.svc.Enrollments.List(ctx, smith, models.EnrollmentFilter{Tno: "T002"})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, "T001", r.Tno)
		}

		rows, err = f.svc.Enrollments.List(ctx, smith, models.EnrollmentFilter{Search: "bob"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "S002", rows[0].Sno)

		rows, err = f.svc.Enrollments.List(ctx, alice, models.EnrollmentFilter{Sno: "S002"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "S001", rows[0].Sno)

		rows, err = f.svc.Enrollments.List(ctx, appAuth.Identity{AccountNo: bootstrapAdmin, Role: models.RoleAdmin}, models.EnrollmentFilter{})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func TestProfileServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S001", "Alice")
	f.teacher(t, "T001", "Dr. Smith")

	dept := "Math"
	s, err := f.svc.Students.Update(ctx, "S001", models.StudentUpdate{Sdept: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Math", s.Sdept)
	assert.Equal(t, "Alice", s.Sname)

	s, err = f.svc.Students.Update(ctx, "S001", models.StudentUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Math", s.Sdept)

	_, err = f.svc.Students.Update(ctx, "S404", models.StudentUpdate{Sdept: &dept})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	tch, err := f.svc.Teachers.Update(ctx, "T001", models.TeacherUpdate{Tdept: &dept})
	require.NoError(t, err)
	require.NotNil(t, tch.Tdept)
	assert.Equal(t, "Math", *tch.Tdept)

	students, err := f.svc.Students.List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	teachers, err := f.svc.Teachers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
}
