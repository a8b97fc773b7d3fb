package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/middleware"
)

// TeacherController serves teacher profiles to admins and the teacher-scoped routes
type TeacherController struct {
	teacherService    *services.TeacherService
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService *services.TeacherService, courseService *services.CourseService, enrollmentService *services.EnrollmentService, logger zerolog.Logger) *TeacherController {
	return &TeacherController{
		teacherService:    teacherService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// ListTeachers lists every teacher
// @Summary List teachers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Teacher}
// @Router /admin/teachers [get]
func (c *TeacherController) ListTeachers(ctx *gin.Context) {
	teachers, err := c.teacherService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teachers))
}

// GetTeacher returns one teacher
// @Summary Get teacher
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param tno path string true "Teacher number"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{tno} [get]
func (c *TeacherController) GetTeacher(ctx *gin.Context) {
	teacher, err := c.teacherService.Get(ctx.Request.Context(), ctx.Param("tno"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher))
}

// UpdateTeacher updates any teacher's profile
// @Summary Update teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tno path string true "Teacher number"
// @Param request body dto.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{tno} [put]
func (c *TeacherController) UpdateTeacher(ctx *gin.Context) {
	c.update(ctx, ctx.Param("tno"))
}

// GetProfile returns the caller's own profile
// @Summary Own teacher profile
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /teacher/profile [get]
func (c *TeacherController) GetProfile(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	teacher, err := c.teacherService.Get(ctx.Request.Context(), id.AccountNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher))
}

// UpdateProfile updates the caller's own profile
// @Summary Update own teacher profile
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Router /teacher/profile [put]
func (c *TeacherController) UpdateProfile(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	c.update(ctx, id.AccountNo)
}

func (c *TeacherController) update(ctx *gin.Context, tno string) {
	var req dto.UpdateTeacherRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	teacher, err := c.teacherService.Update(ctx.Request.Context(), tno, req.ToUpdate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher))
}

// ListCourses lists the caller's own offerings with live counts
// @Summary Own offerings
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /teacher/courses [get]
func (c *TeacherController) ListCourses(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.List(ctx.Request.Context(), id.AccountNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// ListEnrollments lists enrollments in the caller's offerings
// @Summary Enrollments in own offerings
// @Description Optionally narrowed by course code and by a case-insensitive substring of the student number or name.
// @Tags teacher
// @Produce json
// @Security BearerAuth
// @Param Cno query string false "Course code"
// @Param search query string false "Student number or name fragment"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse}
// @Router /teacher/enrollments [get]
func (c *TeacherController) ListEnrollments(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var q dto.TeacherEnrollmentQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	filter := models.EnrollmentFilter{
		Cno:    strings.TrimSpace(q.Cno),
		Search: strings.TrimSpace(q.Search),
	}
	rows, err := c.enrollmentService.List(ctx.Request.Context(), id, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewEnrollmentResponses(rows)))
}

// SetGrade grades an enrollment in one of the caller's offerings
// @Summary Grade enrollment
// @Tags teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sno path string true "Student number"
// @Param cno path string true "Course code"
// @Param request body dto.SetGradeRequest true "Grade, or null to clear"
// @Success 200 {object} dto.APIResponse{data=dto.GradeResponse}
// @Failure 400 {object} dto.ErrorResponse "Grade not an integer in 0..100"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /teacher/enrollments/{sno}/{cno}/grade [put]
func (c *TeacherController) SetGrade(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	key := models.EnrollmentKey{Sno: ctx.Param("sno"), Cno: ctx.Param("cno"), Tno: id.AccountNo}
	setGrade(ctx, c.enrollmentService, id, key)
}
