package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	geom "github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"github.com/KISORE-A/akshuutransports/internal/config"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

// ListBuses returns the fleet. Any authenticated user.
func ListBuses(c *gin.Context) {
	var buses []models.Bus
	if err := config.DB.Find(&buses).Error; err != nil {
		logrus.WithError(err).Error("ListBuses: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, buses)
}

type createBusInput struct {
	BusNo    string `json:"bus_no" binding:"required"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	DriverID uint   `json:"driver_id"`
	Capacity int    `json:"capacity"`
}

// CreateBus registers a bus. Admin only; busNo must be unique.
func CreateBus(c *gin.Context) {
	var input createBusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus := models.Bus{
		BusNo:    input.BusNo,
		Type:     input.Type,
		Status:   input.Status,
		DriverID: input.DriverID,
		Capacity: input.Capacity,
	}
	if bus.Type == "" {
		bus.Type = "Transport"
	}
	if bus.Status == "" {
		bus.Status = "Running"
	}
	if bus.Capacity == 0 {
		bus.Capacity = 40
	}

	if err := config.DB.Create(&bus).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bus number already in use"})
			return
		}
		logrus.WithError(err).Error("CreateBus: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create bus"})
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// DeleteBus removes a bus and its route. Admin only.
func DeleteBus(c *gin.Context) {
	busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID format"})
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, uint(busID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		logrus.WithError(err).Error("DeleteBus: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if err := config.DB.Delete(&bus).Error; err != nil {
		logrus.WithError(err).Error("DeleteBus: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete bus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}

// --- Route geometry ---

// routeResponse mirrors models.BusRoute with Geometry as a GeoJSON string.
type routeResponse struct {
	ID          uint             `json:"ID"`
	BusID       uint             `json:"bus_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Geometry    string           `json:"geometry"`
	Stops       []models.BusStop `json:"stops"`
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and
// returns WKB bytes for storage.
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts stored WKB bytes back into a GeoJSON string.
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type setRouteInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Geometry    string `json:"geometry"` // GeoJSON LineString
	Stops       []struct {
		Name string  `json:"name"`
		Seq  int     `json:"seq"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	} `json:"stops"`
}

// SetBusRoute creates or replaces the route for a bus. Admin only.
func SetBusRoute(c *gin.Context) {
	busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID format"})
		return
	}

	var input setRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var bus models.Bus
	if err := config.DB.First(&bus, uint(busID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bus not found"})
			return
		}
		logrus.WithError(err).Error("SetBusRoute: bus lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	// Replace any existing route for this bus
	var existing models.BusRoute
	if err := tx.Where("bus_id = ?", bus.ID).First(&existing).Error; err == nil {
		if err := tx.Where("bus_route_id = ?", existing.ID).Delete(&models.BusStop{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace route stops"})
			return
		}
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace route"})
			return
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		logrus.WithError(err).Error("SetBusRoute: route lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	route := models.BusRoute{
		BusID:       bus.ID,
		Name:        input.Name,
		Description: input.Description,
		Geometry:    wkbGeom,
	}
	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("SetBusRoute: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create route"})
		return
	}

	for _, s := range input.Stops {
		stop := models.BusStop{Name: s.Name, Seq: s.Seq, Lat: s.Lat, Lng: s.Lng, BusRouteID: route.ID}
		if err := tx.Create(&stop).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create stop"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Route saved", "id": route.ID})
}

// GetBusRoute returns a bus's route with geometry as GeoJSON.
func GetBusRoute(c *gin.Context) {
	busID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bus ID format"})
		return
	}

	var route models.BusRoute
	if err := config.DB.Preload("Stops", func(db *gorm.DB) *gorm.DB {
		return db.Order("bus_stops.seq ASC")
	}).Where("bus_id = ?", uint(busID)).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found for this bus"})
			return
		}
		logrus.WithError(err).Error("GetBusRoute: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	geoJSON, err := convertWKBToGeoJSON(route.Geometry)
	if err != nil {
		logrus.WithError(err).Error("GetBusRoute: geometry decode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode route geometry"})
		return
	}

	c.JSON(http.StatusOK, routeResponse{
		ID:          route.ID,
		BusID:       route.BusID,
		Name:        route.Name,
		Description: route.Description,
		Geometry:    geoJSON,
		Stops:       route.Stops,
	})
}
