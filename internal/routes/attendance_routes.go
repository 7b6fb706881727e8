package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KISORE-A/akshuutransports/internal/controllers"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

// AttendanceRoutes enforces the role table at the route level:
// drivers issue codes, students submit and mark themselves, staff read
// everything. Self-only checks live in the handlers.
func AttendanceRoutes(r *gin.Engine) {
	att := r.Group("/attendance")
	{
		att.POST("/otp/generate", middleware.RequireRoles(models.RoleDriver), controllers.GenerateCode)
		att.POST("/otp/submit", middleware.RequireRoles(models.RoleStudent), controllers.SubmitCode)
		att.POST("/mark", middleware.RequireRoles(models.RoleStudent), controllers.MarkAttendance)

		att.GET("", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), controllers.ListAllAttendance)
		att.GET("/:studentId", middleware.RequireRoles(models.RoleStudent, models.RoleTeacher, models.RoleAdmin), controllers.ListStudentAttendance)
		att.GET("/:studentId/summary", middleware.RequireRoles(models.RoleStudent, models.RoleTeacher, models.RoleAdmin), controllers.StudentAttendanceSummary)
	}
}
