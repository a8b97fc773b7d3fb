package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/sis/internal/app/controllers"
	"github.com/yigit/sis/internal/app/models"
	"github.com/yigit/sis/internal/middleware"
)

// Controllers groups the handlers the router needs
type Controllers struct {
	Auth        *controllers.AuthController
	Accounts    *controllers.AccountController
	Students    *controllers.StudentController
	Teachers    *controllers.TeacherController
	Courses     *controllers.CourseController
	Enrollments *controllers.EnrollmentController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", ctrl.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", ctrl.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", ctrl.Auth.Me)
		authenticated.POST("/auth/change-password", ctrl.Auth.ChangePassword)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		users := admin.Group("/users")
		users.POST("", ctrl.Accounts.CreateUser)
		users.POST("/reset-password", ctrl.Accounts.ResetPassword)
		users.DELETE("/:account_no", ctrl.Accounts.DeleteUser)

		students := admin.Group("/students")
		students.GET("", ctrl.Students.ListStudents)
		students.GET("/:sno", ctrl.Students.GetStudent)
		students.PUT("/:sno", ctrl.Students.UpdateStudent)

		teachers := admin.Group("/teachers")
		teachers.GET("", ctrl.Teachers.ListTeachers)
		teachers.GET("/:tno", ctrl.Teachers.GetTeacher)
		teachers.PUT("/:tno", ctrl.Teachers.UpdateTeacher)

		courses := admin.Group("/courses")
		courses.GET("", ctrl.Courses.ListCourses)
		courses.POST("", ctrl.Courses.CreateCourse)
		courses.DELETE("/:cno/:ctno", ctrl.Courses.DeleteCourse)

		enrollments := admin.Group("/enrollments")
		enrollments.GET("", ctrl.Enrollments.ListEnrollments)
		enrollments.GET("/export", ctrl.Enrollments.ExportEnrollments)
		enrollments.PUT("/:sno/:cno/:tno/grade", ctrl.Enrollments.SetGrade)
		enrollments.DELETE("/:sno/:cno/:tno", ctrl.Enrollments.DeleteEnrollment)
	}

	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/profile", ctrl.Students.GetProfile)
		student.PUT("/profile", ctrl.Students.UpdateProfile)
		student.GET("/courses", ctrl.Students.ListCourses)
		student.POST("/enroll", ctrl.Students.Enroll)
		student.DELETE("/enroll/:cno/:tno", ctrl.Students.Unenroll)
		student.GET("/enrollments", ctrl.Students.ListEnrollments)
	}

	teacher := authenticated.Group("/teacher")
	teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
	{
		teacher.GET("/profile", ctrl.Teachers.GetProfile)
		teacher.PUT("/profile", ctrl.Teachers.UpdateProfile)
		teacher.GET("/courses", ctrl.Teachers.ListCourses)
		teacher.GET("/enrollments", ctrl.Teachers.ListEnrollments)
		teacher.PUT("/enrollments/:sno/:cno/grade", ctrl.Teachers.SetGrade)
	}
}
