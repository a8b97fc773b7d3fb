package dto

import (
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/helpers"
)

// UpdateStudentRequest updates a student profile; omitted fields are unchanged
type UpdateStudentRequest struct {
	Sname *string `json:"Sname" binding:"omitempty,min=1,max=64"`
	Ssex  *string `json:"Ssex" binding:"omitempty,min=1,max=8"`
	Sdept *string `json:"Sdept" binding:"omitempty,min=1,max=64"`
	Sage  *int    `json:"Sage" binding:"omitempty,gte=0,lte=150"`
}

// ToUpdate converts the request; blank strings count as omitted because
// name, sex and department may not be cleared.
func (r UpdateStudentRequest) ToUpdate() models.StudentUpdate {
	return models.StudentUpdate{
		Sname: helpers.TrimPtr(r.Sname),
		Ssex:  helpers.TrimPtr(r.Ssex),
		Sdept: helpers.TrimPtr(r.Sdept),
		Sage:  r.Sage,
	}
}

// EnrollRequest selects an offering for the calling student
type EnrollRequest struct {
	Cno string `json:"Cno" binding:"required,coursecode" example:"CS101"`
	Tno string `json:"Tno" binding:"required,accountno" example:"T0000001"`
}
