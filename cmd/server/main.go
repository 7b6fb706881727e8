package main

import (
	"log"
	"net/http"

	"github.com/KISORE-A/akshuutransports/internal/attendance"
	"github.com/KISORE-A/akshuutransports/internal/config"
	"github.com/KISORE-A/akshuutransports/internal/controllers"
	"github.com/KISORE-A/akshuutransports/internal/logger"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/otp"
	"github.com/KISORE-A/akshuutransports/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Attendance ledger and verification code engine
	ledger := attendance.NewLedger(config.DB)
	engine := otp.NewEngine(ledger, otp.DefaultTTL)
	engine.Start()
	defer engine.Stop()
	controllers.Init(ledger, engine)

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
