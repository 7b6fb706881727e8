package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KISORE-A/akshuutransports/internal/config"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

type locationInput struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// UpdateDriverLocation stores a GPS fix for the authenticated driver.
// The series is latest-wins on read; every fix is kept.
func UpdateDriverLocation(c *gin.Context) {
	driverID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Lat < -90 || input.Lat > 90 || input.Lng < -180 || input.Lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat/lng out of range"})
		return
	}

	distance := 0.0
	var last models.DriverLocation
	err := config.DB.Where("driver_id = ?", driverID).Order("timestamp DESC").First(&last).Error
	if err == nil {
		distance = calculateDistance(last.Lat, last.Lng, input.Lat, input.Lng)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("UpdateDriverLocation: last fix lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	location := models.DriverLocation{
		DriverID:         driverID,
		Lat:              input.Lat,
		Lng:              input.Lng,
		DistanceFromLast: distance,
		Timestamp:        time.Now(),
	}
	if err := config.DB.Create(&location).Error; err != nil {
		logrus.WithError(err).Error("UpdateDriverLocation: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// GetLatestDriverLocation returns the most recent fix for a driver.
func GetLatestDriverLocation(c *gin.Context) {
	driverID, err := strconv.ParseUint(c.Param("driverId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID format"})
		return
	}

	var location models.DriverLocation
	if err := config.DB.Where("driver_id = ?", uint(driverID)).
		Order("timestamp DESC").
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		logrus.WithError(err).Error("GetLatestDriverLocation: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// calculateDistance returns the haversine distance in meters.
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
