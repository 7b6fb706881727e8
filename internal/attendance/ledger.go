package attendance

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/KISORE-A/akshuutransports/internal/models"
)

// ErrStudentNotFound is returned when the target id does not belong to
// a student account. Every ledger row must reference a student.
var ErrStudentNotFound = errors.New("student not found")

// Ledger is the append-only store of attendance events.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Append records an attendance event for a student. Rows are never
// updated afterwards, and multiple rows per student per day are
// allowed; readers dedupe by calendar date.
func (l *Ledger) Append(ctx context.Context, studentID uint, status string, at time.Time) (models.Attendance, error) {
	var student models.User
	err := l.db.WithContext(ctx).
		Where("id = ? AND role = ?", studentID, models.RoleStudent).
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Attendance{}, ErrStudentNotFound
		}
		return models.Attendance{}, err
	}

	if at.IsZero() {
		at = time.Now()
	}
	record := models.Attendance{StudentID: studentID, Status: status, Date: at}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.Attendance{}, err
	}
	return record, nil
}

// AppendPresent records a Present event stamped with the current time.
// It satisfies the code engine's ledger interface.
func (l *Ledger) AppendPresent(ctx context.Context, studentID uint) (models.Attendance, error) {
	return l.Append(ctx, studentID, "Present", time.Now())
}

// ListByStudent returns one student's records, newest first.
func (l *Ledger) ListByStudent(ctx context.Context, studentID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := l.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

// Entry is an attendance record flattened with the student's identity,
// used by the staff-wide listing.
type Entry struct {
	ID           uint      `json:"id"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	StudentID    uint      `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
}

// ListAll returns every record joined with the student's name and
// email, newest first. Role gating happens at the route level.
func (l *Ledger) ListAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := l.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Select("attendances.id, attendances.date, attendances.status, attendances.student_id, users.name AS student_name, users.email AS student_email").
		Joins("JOIN users ON users.id = attendances.student_id").
		Order("attendances.date DESC").
		Scan(&entries).Error
	return entries, err
}

// Summary reports one student's trailing-window attendance. It is
// derived on read and never stored.
func (l *Ledger) Summary(ctx context.Context, studentID uint, now time.Time) (Summary, error) {
	cutoff := windowStart(now)
	var dates []time.Time
	err := l.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("student_id = ? AND date >= ?", studentID, cutoff).
		Pluck("date", &dates).Error
	if err != nil {
		return Summary{}, err
	}
	return summarize(dates, now), nil
}
