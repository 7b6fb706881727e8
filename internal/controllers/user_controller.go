package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/KISORE-A/akshuutransports/internal/config"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
)

// GetProfile returns the authenticated user's own record.
func GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logrus.WithError(err).Error("GetProfile: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// updateProfileInput: pointer fields so absent keys leave the stored
// value untouched.
type updateProfileInput struct {
	Name               *string `json:"name"`
	Phone              *string `json:"phone"`
	Department         *string `json:"department"`
	Year               *string `json:"year"`
	StudentNo          *string `json:"student_no"`
	IsTwoFactorEnabled *bool   `json:"is_two_factor_enabled"`
}

// UpdateProfile lets any authenticated user edit their own profile
// fields. Email, password and role are not editable here.
func UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logrus.WithError(err).Error("UpdateProfile: lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Year != nil {
		user.Year = *input.Year
	}
	if input.StudentNo != nil {
		user.StudentNo = *input.StudentNo
	}
	if input.IsTwoFactorEnabled != nil {
		user.IsTwoFactorEnabled = *input.IsTwoFactorEnabled
	}

	if err := config.DB.Save(&user).Error; err != nil {
		logrus.WithError(err).Error("UpdateProfile: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// ListUsers returns name/email/role for every account. Admin only.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Select("id", "name", "email", "role").Find(&users).Error; err != nil {
		logrus.WithError(err).Error("ListUsers: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role})
	}
	c.JSON(http.StatusOK, out)
}
