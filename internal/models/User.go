package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     Role   `json:"role" gorm:"type:varchar(16);index"` // "student", "driver", "admin", "teacher"

	// Profile fields, editable via PUT /user/profile
	Phone              string `json:"phone"`
	Department         string `json:"department"`
	Year               string `json:"year"`
	StudentNo          string `json:"student_no"`
	IsTwoFactorEnabled bool   `json:"is_two_factor_enabled" gorm:"default:false"`
}
