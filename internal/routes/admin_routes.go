package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KISORE-A/akshuutransports/internal/controllers"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/users")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("", controllers.ListUsers)
	}
}
