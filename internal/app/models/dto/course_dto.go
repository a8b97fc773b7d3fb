package dto

import "github.com/yigit/sis/internal/app/models"

// CreateCourseRequest creates an offering of Cno taught by Ctno
type CreateCourseRequest struct {
	Cno     string   `json:"Cno" binding:"required,coursecode" example:"CS101"`
	Ctno    string   `json:"Ctno" binding:"required,accountno" example:"T0000001"`
	Cname   string   `json:"Cname" binding:"required,max=128" example:"Databases"`
	Ccredit *float64 `json:"Ccredit" binding:"required,gte=0" example:"3"`
}

// CourseResponse is an offering with its live enrollment count
type CourseResponse struct {
	models.Course
	Enrolled int  `json:"enrolled" example:"12"`
	Selected bool `json:"selected" example:"false"`
}
