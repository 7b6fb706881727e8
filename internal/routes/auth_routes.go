package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KISORE-A/akshuutransports/internal/controllers"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.POST("/login", controllers.LoginUser)
	}
}
