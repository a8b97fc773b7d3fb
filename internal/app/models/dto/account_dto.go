package dto

import (
	"sort"
	"strings"

	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/apperrors"
	"github.com/yigit/sis/internal/pkg/helpers"
)

// CreateAccountRequest creates an account and, for students and teachers,
// its profile. Password falls back to the configured default.
type CreateAccountRequest struct {
	AccountNo string  `json:"account_no" binding:"required,accountno" example:"20230001"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Role      string  `json:"role" binding:"required,oneof=admin teacher student" example:"student"`

	Sname *string `json:"Sname" binding:"omitempty,max=64"`
	Ssex  *string `json:"Ssex" binding:"omitempty,max=8"`
	Sdept *string `json:"Sdept" binding:"omitempty,max=64"`
	Sage  *int    `json:"Sage" binding:"omitempty,gte=0,lte=150"`

	Tname *string `json:"Tname" binding:"omitempty,max=64"`
	Tdept *string `json:"Tdept" binding:"omitempty,max=64"`
	Tsex  *string `json:"Tsex" binding:"omitempty,max=8"`
}

// NewAccount is a validated account creation command
type NewAccount struct {
	AccountNo string
	Password  string
	Role      models.Role
	Student   *models.Student
	Teacher   *models.Teacher
}

// AccountResponse describes an account without credentials
type AccountResponse struct {
	AccountNo string `json:"account_no" example:"20230001"`
	Role      string `json:"role" example:"student"`
}

// ResetPasswordRequest sets another account's password; empty means default
type ResetPasswordRequest struct {
	AccountNo   string  `json:"account_no" binding:"required,accountno"`
	NewPassword *string `json:"new_password" binding:"omitempty,min=6"`
}

// ResetPasswordResponse reports the outcome of a reset
type ResetPasswordResponse struct {
	OK             bool   `json:"ok"`
	AccountNo      string `json:"account_no"`
	ResetToDefault bool   `json:"reset_to_default"`
}

// ToNewAccount checks the profile fields the role requires and builds the
// creation command. defaultPassword is used when no password was sent.
func (r CreateAccountRequest) ToNewAccount(defaultPassword string) (*NewAccount, error) {
	role, err := models.ParseRole(r.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	acc := &NewAccount{
		AccountNo: strings.TrimSpace(r.AccountNo),
		Password:  defaultPassword,
		Role:      role,
	}
	if r.Password != nil && *r.Password != "" {
		acc.Password = *r.Password
	}

	switch role {
	case models.RoleStudent:
		missing := []string{}
		for name, v := range map[string]*string{"Sname": r.Sname, "Ssex": r.Ssex, "Sdept": r.Sdept} {
			if trimmed(v) == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, apperrors.NewValidationError("student accounts require Sname, Ssex and Sdept").
				WithDetails(map[string]interface{}{"missing": sortedStrings(missing)})
		}
		acc.Student = &models.Student{
			Sno:   acc.AccountNo,
			Sname: trimmed(r.Sname),
			Ssex:  trimmed(r.Ssex),
			Sdept: trimmed(r.Sdept),
			Sage:  r.Sage,
		}
	case models.RoleTeacher:
		if trimmed(r.Tname) == "" {
			return nil, apperrors.NewValidationError("teacher accounts require Tname").
				WithDetails(map[string]interface{}{"missing": []string{"Tname"}})
		}
		acc.Teacher = &models.Teacher{
			Tno:   acc.AccountNo,
			Tname: trimmed(r.Tname),
			Tdept: helpers.TrimPtr(r.Tdept),
			Tsex:  helpers.TrimPtr(r.Tsex),
		}
	case models.RoleAdmin:
	}

	return acc, nil
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
