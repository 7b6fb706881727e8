package models

import "gorm.io/gorm"

type Bus struct {
	gorm.Model
	BusNo    string `json:"bus_no" gorm:"unique;not null"`
	Type     string `json:"type" gorm:"default:Transport"`
	Status   string `json:"status" gorm:"default:Running"`
	DriverID uint   `json:"driver_id" gorm:"index"`
	Capacity int    `json:"capacity" gorm:"default:40"`
}
