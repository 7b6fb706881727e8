package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverLocation is a latest-wins time series of reported GPS fixes.
type DriverLocation struct {
	gorm.Model
	DriverID         uint      `json:"driver_id" gorm:"index;not null"`
	Driver           User      `json:"-" gorm:"foreignKey:DriverID"`
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	DistanceFromLast float64   `json:"distance_from_last"` // meters from the previous fix
	Timestamp        time.Time `json:"timestamp" gorm:"index"`
}
