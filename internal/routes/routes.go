package routes

import (
	"net/http"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlogger.SetLogger())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Backend is running", "time": time.Now()})
	})

	AuthRoutes(r)
	UserRoutes(r)
	AttendanceRoutes(r)
	BusRoutes(r)
	DriverRoutes(r)
	AdminRoutes(r)

	return r
}
