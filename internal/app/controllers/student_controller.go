package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/middleware"
)

// StudentController serves student profiles to admins and the student-scoped routes
type StudentController struct {
	studentService    *services.StudentService
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, courseService *services.CourseService, enrollmentService *services.EnrollmentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService:    studentService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// ListStudents lists every student
// @Summary List students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(students))
}

// GetStudent returns one student
// @Summary Get student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param sno path string true "Student number"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{sno} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx.Request.Context(), ctx.Param("sno"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// UpdateStudent updates any student's profile
// @Summary Update student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sno path string true "Student number"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{sno} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	c.update(ctx, ctx.Param("sno"))
}

// GetProfile returns the caller's own profile
// @Summary Own student profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /student/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), id.AccountNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// UpdateProfile updates the caller's own profile
// @Summary Update own student profile
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /student/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	c.update(ctx, id.AccountNo)
}

func (c *StudentController) update(ctx *gin.Context, sno string) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), sno, req.ToUpdate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// ListCourses lists every offering with live counts and the caller's selection
// @Summary Offerings for students
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /student/courses [get]
func (c *StudentController) ListCourses(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	courses, err := c.courseService.ListForStudent(ctx.Request.Context(), id.AccountNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// Enroll enrolls the caller in an offering
// @Summary Enroll
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Offering"
// @Success 201 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 404 {object} dto.ErrorResponse "Offering not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /student/enroll [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	offering := models.OfferingKey{Cno: req.Cno, Tno: req.Tno}
	if err := c.enrollmentService.Enroll(ctx.Request.Context(), id, offering); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}

// Unenroll removes the caller's enrollment
// @Summary Unenroll
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param cno path string true "Course code"
// @Param tno path string true "Teacher number"
// @Success 200 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /student/enroll/{cno}/{tno} [delete]
func (c *StudentController) Unenroll(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	key := models.EnrollmentKey{Sno: id.AccountNo, Cno: ctx.Param("cno"), Tno: ctx.Param("tno")}
	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), id, key); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}

// ListEnrollments lists the caller's enrollments with course and teacher names
// @Summary Own enrollments
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse}
// @Router /student/enrollments [get]
func (c *StudentController) ListEnrollments(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	rows, err := c.enrollmentService.List(ctx.Request.Context(), id, models.EnrollmentFilter{})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewEnrollmentResponses(rows)))
}
