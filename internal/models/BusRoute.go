package models

import "gorm.io/gorm"

// BusRoute describes the service path a bus runs between campus and town.
// A bus has at most one route; each route carries ordered stops.
type BusRoute struct {
	gorm.Model

	BusID       uint   `json:"bus_id" gorm:"uniqueIndex"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`

	// Geometry is a LINESTRING (SRID 4326) stored as WKB.
	// Clients send and receive it as GeoJSON.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	Stops []BusStop `gorm:"foreignKey:BusRouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stops,omitempty"`
}

// BusStop is a pickup/dropoff point along a route, ordered by Seq.
type BusStop struct {
	gorm.Model

	Name string  `json:"name" binding:"required"`
	Seq  int     `json:"seq"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`

	BusRouteID uint `json:"bus_route_id"`
}
