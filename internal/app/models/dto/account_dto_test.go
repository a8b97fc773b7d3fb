package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/apperrors"
)

func strPtr(s string) *string {
	return &s
}

func TestCreateAccountRequest_Student(t *testing.T) {
	req := CreateAccountRequest{
		AccountNo: " S001 ",
		Role:      "student",
		Sname:     strPtr(" Alice "),
		Ssex:      strPtr("F"),
		Sdept:     strPtr("CS"),
	}

	acc, err := req.ToNewAccount("123456")
	require.NoError(t, err)
	assert.Equal(t, "S001", acc.AccountNo)
	assert.Equal(t, "123456", acc.Password)
	assert.Equal(t, models.RoleStudent, acc.Role)
	require.NotNil(t, acc.Student)
	assert.Equal(t, "Alice", acc.Student.Sname)
	assert.Equal(t, "S001", acc.Student.Sno)
	assert.Nil(t, acc.Teacher)
}

func TestCreateAccountRequest_StudentMissingFields(t *testing.T) {
	req := CreateAccountRequest{
		AccountNo: "S001",
		Role:      "student",
		Sname:     strPtr("Alice"),
		Sdept:     strPtr("  "),
	}

	_, err := req.ToNewAccount("123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"Sdept", "Ssex"}, ce.Details["missing"])
}

func TestCreateAccountRequest_Teacher(t *testing.T) {
	req := CreateAccountRequest{
		AccountNo: "T001",
		Role:      "teacher",
		Password:  strPtr("s3cret!"),
		Tname:     strPtr("Dr. Smith"),
		Tdept:     strPtr(""),
	}

	acc, err := req.ToNewAccount("123456")
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", acc.Password)
	require.NotNil(t, acc.Teacher)
	assert.Nil(t, acc.Teacher.Tdept)

	req.Tname = nil
	_, err = req.ToNewAccount("123456")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateAccountRequest_Admin(t *testing.T) {
	acc, err := CreateAccountRequest{AccountNo: "A002", Role: "admin"}.ToNewAccount("123456")
	require.NoError(t, err)
	assert.Nil(t, acc.Student)
	assert.Nil(t, acc.Teacher)
}

func TestUpdateStudentRequest_BlankIsOmitted(t *testing.T) {
	upd := UpdateStudentRequest{Sname: strPtr("  "), Sdept: strPtr(" Math ")}.ToUpdate()
	assert.Nil(t, upd.Sname)
	require.NotNil(t, upd.Sdept)
	assert.Equal(t, "Math", *upd.Sdept)
}
