package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KISORE-A/akshuutransports/internal/controllers"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

func BusRoutes(r *gin.Engine) {
	bus := r.Group("/buses")
	bus.Use(middleware.RequireAuth())
	{
		bus.GET("", controllers.ListBuses)
		bus.POST("", middleware.RequireRoles(models.RoleAdmin), controllers.CreateBus)
		bus.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), controllers.DeleteBus)
		bus.PUT("/:id/route", middleware.RequireRoles(models.RoleAdmin), controllers.SetBusRoute)
		bus.GET("/:id/route", controllers.GetBusRoute)
	}
}
