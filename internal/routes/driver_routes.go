package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KISORE-A/akshuutransports/internal/controllers"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/driver")
	{
		driver.POST("/location", middleware.RequireRoles(models.RoleDriver), controllers.UpdateDriverLocation)
		driver.GET("/location/:driverId", middleware.RequireAuth(), controllers.GetLatestDriverLocation)
	}
}
