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

// CourseController handles admin course offering management
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// ListCourses lists every offering with its live enrollment count
// @Summary List offerings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /admin/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.List(ctx.Request.Context(), "")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// CreateCourse creates an offering
// @Summary Create offering
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Offering"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Failure 409 {object} dto.ErrorResponse "Offering already exists"
// @Router /admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	course := &models.Course{
		Cno:     req.Cno,
		Ctno:    req.Ctno,
		Cname:   req.Cname,
		Ccredit: *req.Ccredit,
	}
	created, err := c.courseService.Create(ctx.Request.Context(), course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(created))
}

// DeleteCourse deletes an offering and its enrollments
// @Summary Delete offering
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param cno path string true "Course code"
// @Param ctno path string true "Teacher number"
// @Success 200 {object} dto.APIResponse{data=dto.OKResponse}
// @Failure 404 {object} dto.ErrorResponse "Offering not found"
// @Router /admin/courses/{cno}/{ctno} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	key := models.OfferingKey{Cno: ctx.Param("cno"), Tno: ctx.Param("ctno")}
	if err := c.courseService.Delete(ctx.Request.Context(), key); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.OKResponse{OK: true}))
}
