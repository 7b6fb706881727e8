package models

import (
	"time"

	"gorm.io/gorm"
)

// Attendance is an append-only record of a verified attendance event.
// Rows are never updated after creation; analytics dedupe by calendar
// date on read instead of enforcing one mark per day on write.
type Attendance struct {
	gorm.Model
	StudentID uint      `json:"student_id" gorm:"index;not null"`
	Student   User      `json:"-" gorm:"foreignKey:StudentID"`
	Date      time.Time `json:"date" gorm:"index"`
	Status    string    `json:"status" gorm:"not null"` // "Present", "Absent" or free text
}
