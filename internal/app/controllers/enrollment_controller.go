package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/sis/internal/app/auth"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/app/models/dto"
	"github.com/yigit/sis/internal/app/services"
	"github.com/yigit/sis/internal/middleware"
)

// EnrollmentExporter is implemented by *services.ExportService
type EnrollmentExporter interface {
	FileName() string
	Render(rows []*models.EnrollmentDetail) ([]byte, error)
}

// EnrollmentController handles admin enrollment management
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
	exportService     EnrollmentExporter
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService, exportService EnrollmentExporter, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		exportService:     exportService,
		logger:            logger,
	}
}

func (c *EnrollmentController) query(ctx *gin.Context) ([]*models.EnrollmentDetail, bool) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return nil, false
	}

	var q dto.EnrollmentQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return nil, false
	}

	filter := models.EnrollmentFilter{
		Sno: strings.TrimSpace(q.Sno),
		Cno: strings.TrimSpace(q.Cno),
		Tno: strings.TrimSpace(q.Tno),
	}
	rows, err := c.enrollmentService.List(ctx.Request.Context(), id, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return rows, true
}

// ListEnrollments lists joined enrollment rows
// @Summary List enrollments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param Sno query string false "Student number"
// @Param Cno query string false "Course code"
// @Param Tno query string false "Teacher number"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse}
// @Router /admin/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	rows, ok := c.query(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewEnrollmentResponses(rows)))
}

// ExportEnrollments downloads the filtered enrollment rows as a workbook
// @Summary Export enrollments
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param Sno query string false "Student number"
// @Param Cno query string false "Course code"
// @Param Tno query string false "Teacher number"
// @Success 200 {file} file
// @Failure 500 {object} dto.ErrorResponse "Workbook could not be built"
// @Router /admin/enrollments/export [get]
func (c *EnrollmentController) ExportEnrollments(ctx *gin.Context) {
	rows, ok := c.query(ctx)
	if !ok {
		return
	}

	data, err := c.exportService.Render(rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+c.exportService.FileName())
	ctx.Data(http.StatusOK, services.XLSXContentType, data)
}

// SetGrade grades any enrollment
// @Summary Grade enrollment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sno path string true "Student number"
// @Param cno path string true "Course code"
// @Param tno path string true "Teacher number"
// @Param request body dto.SetGradeRequest true "Grade, or null to clear"
// @Success 200 {object} dto.APIResponse{data=dto.GradeResponse}
// @Failure 400 {object} dto.ErrorResponse "Grade not an integer in 0..100"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /admin/enrollments/{sno}/{cno}/{tno}/grade [put]
func (c *EnrollmentController) SetGrade(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	key := models.EnrollmentKey{Sno: ctx.Param("sno"), Cno: ctx.Param("cno"), Tno: ctx.Param("tno")}
	setGrade(ctx, c.enrollmentService, id, key)
}

// DeleteEnrollment force-removes any enrollment
// @Summary Remove enrollment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /admin/enrollments/{sno}/{cno}/{tno} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	key := models.EnrollmentKey{Sno: ctx.Param("sno"), Cno: ctx.Param("cno"), Tno: ctx.Param("tno")}
	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), id, key); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}

func setGrade(ctx *gin.Context, svc *services.EnrollmentService, id appAuth.Identity, key models.EnrollmentKey) {
	var req dto.SetGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	e, err := svc.SetGrade(ctx.Request.Context(), id, key, req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewGradeResponse(e)))
}
