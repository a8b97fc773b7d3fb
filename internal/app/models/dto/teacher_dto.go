package dto

import (
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/pkg/helpers"
)

// UpdateTeacherRequest updates a teacher profile; omitted fields are unchanged
type UpdateTeacherRequest struct {
	Tname *string `json:"Tname" binding:"omitempty,min=1,max=64"`
	Tdept *string `json:"Tdept" binding:"omitempty,max=64"`
	Tsex  *string `json:"Tsex" binding:"omitempty,max=8"`
}

// ToUpdate converts the request. Tname may not be blanked; Tdept and Tsex
// are stored as given.
func (r UpdateTeacherRequest) ToUpdate() models.TeacherUpdate {
	return models.TeacherUpdate{
		Tname: helpers.TrimPtr(r.Tname),
		Tdept: r.Tdept,
		Tsex:  r.Tsex,
	}
}
