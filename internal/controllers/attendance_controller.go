package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/KISORE-A/akshuutransports/internal/attendance"
	"github.com/KISORE-A/akshuutransports/internal/middleware"
	"github.com/KISORE-A/akshuutransports/internal/models"
	"github.com/KISORE-A/akshuutransports/internal/otp"
)

var (
	ledger     *attendance.Ledger
	codeEngine *otp.Engine
)

// Init wires the attendance ledger and code engine into the handler
// package. Called once from main before the router starts serving.
func Init(l *attendance.Ledger, e *otp.Engine) {
	ledger = l
	codeEngine = e
}

// GenerateCode issues a fresh verification code for the authenticated
// driver and renders it as a scannable QR payload. Replaces any earlier
// code by the same driver.
func GenerateCode(c *gin.Context) {
	driverID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	code := codeEngine.Generate(driverID)

	png, err := qrcode.Encode(code.Value, qrcode.Medium, 256)
	if err != nil {
		logrus.WithError(err).Error("GenerateCode: QR encoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":        code.Value,
		"expires_at":  code.ExpiresAt,
		"ttl_seconds": int(codeEngine.TTL().Seconds()),
		"qr":          base64.StdEncoding.EncodeToString(png),
	})
}

// SubmitCode checks a typed or scanned code for the authenticated
// student and records a Present event on a match. The student can only
// mark themselves; identity comes from the verified token, never the body.
func SubmitCode(c *gin.Context) {
	studentID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := codeEngine.Submit(c.Request.Context(), studentID, body.Code)
	if err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, otp.ErrNoActiveCode):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active code. Ask your driver to generate one."})
		case errors.Is(err, otp.ErrCodeMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		case errors.Is(err, otp.ErrCodeExpired):
			c.JSON(http.StatusGone, gin.H{"error": "Code expired"})
		case errors.Is(err, otp.ErrCodeConsumed):
			c.JSON(http.StatusConflict, gin.H{"error": "Code already used"})
		case errors.Is(err, attendance.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		default:
			logrus.WithError(err).Error("SubmitCode: ledger append failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "attendance store unavailable, please retry"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked", "id": record.ID, "record": record})
}

// MarkAttendance records an event directly, without a code. Students
// may only mark themselves.
func MarkAttendance(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return
	}

	var body struct {
		StudentID uint   `json:"studentId" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.StudentID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only mark your own attendance"})
		return
	}

	record, err := ledger.Append(c.Request.Context(), body.StudentID, body.Status, time.Now())
	if err != nil {
		if errors.Is(err, attendance.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		logrus.WithError(err).Error("MarkAttendance: append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked", "id": record.ID})
}

// canViewStudent: students see only their own records, staff see any.
func canViewStudent(c *gin.Context, studentID uint) bool {
	role, ok := middleware.CurrentRole(c)
	if !ok {
		return false
	}
	switch role {
	case models.RoleTeacher, models.RoleAdmin:
		return true
	case models.RoleStudent:
		userID, ok := middleware.CurrentUserID(c)
		return ok && userID == studentID
	default:
		return false
	}
}

// ListStudentAttendance returns one student's records, newest first.
func ListStudentAttendance(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID format"})
		return
	}

	if !canViewStudent(c, uint(studentID)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	records, err := ledger.ListByStudent(c.Request.Context(), uint(studentID))
	if err != nil {
		logrus.WithError(err).Error("ListStudentAttendance: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// StudentAttendanceSummary returns 30-day window statistics for one
// student, computed on read.
func StudentAttendanceSummary(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID format"})
		return
	}

	if !canViewStudent(c, uint(studentID)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	summary, err := ledger.Summary(c.Request.Context(), uint(studentID), time.Now())
	if err != nil {
		logrus.WithError(err).Error("StudentAttendanceSummary: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListAllAttendance returns the flattened record list with student
// name/email. The route group restricts this to teacher and admin.
func ListAllAttendance(c *gin.Context) {
	entries, err := ledger.ListAll(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("ListAllAttendance: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
