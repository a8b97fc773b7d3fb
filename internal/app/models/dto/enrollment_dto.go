package dto

import "github.com/yigit/sis/internal/app/models"

// EnrollmentResponse is one row of the joined enrollment view
type EnrollmentResponse struct {
	Sno     string  `json:"Sno" example:"20230001"`
	Sname   string  `json:"Sname" example:"Alice"`
	Cno     string  `json:"Cno" example:"CS101"`
	Cname   string  `json:"Cname" example:"Databases"`
	Ccredit float64 `json:"Ccredit" example:"3"`
	Tno     string  `json:"Tno" example:"T0000001"`
	Tname   string  `json:"Tname" example:"Dr. Smith"`
	Grade   *string `json:"grade" example:"95"`
}

// NewEnrollmentResponse converts a joined row
func NewEnrollmentResponse(d *models.EnrollmentDetail) EnrollmentResponse {
	return EnrollmentResponse{
		Sno:     d.Sno,
		Sname:   d.Sname,
		Cno:     d.Cno,
		Cname:   d.Cname,
		Ccredit: d.Ccredit,
		Tno:     d.Tno,
		Tname:   d.Tname,
		Grade:   FormatGrade(d.Grade),
	}
}

// NewEnrollmentResponses converts a slice of joined rows
func NewEnrollmentResponses(details []*models.EnrollmentDetail) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, NewEnrollmentResponse(d))
	}
	return out
}

// EnrollmentQuery binds the admin enrollment filters
type EnrollmentQuery struct {
	Sno string `form:"Sno"`
	Cno string `form:"Cno"`
	Tno string `form:"Tno"`
}

// TeacherEnrollmentQuery binds the teacher enrollment filters
type TeacherEnrollmentQuery struct {
	Cno    string `form:"Cno"`
	Search string `form:"search"`
}
