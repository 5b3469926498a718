package repository

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendance-reconciliation-backend/internal/models"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes one attendance day, overwriting every non-key field when
// the (name, date) row already exists.
func (r *AttendanceRepository) Upsert(entry *models.Attendance) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"employee_id", "user_type", "designation", "department", "location",
			"first_in", "last_out", "gross_time", "out_of_office_time",
			"out_of_office_count", "net_office_time",
		}),
	}).Create(entry).Error
}

// InRange returns all attendance days between start and end inclusive.
func (r *AttendanceRepository) InRange(start, end time.Time) ([]models.Attendance, error) {
	var entries []models.Attendance
	err := r.db.
		Where("date BETWEEN ? AND ?", start, end).
		Order("date, name").
		Find(&entries).Error
	return entries, err
}

// LowHours returns attendance days in range whose net office time is known
// and strictly below the limit.
func (r *AttendanceRepository) LowHours(start, end time.Time, limit datatypes.Time) ([]models.Attendance, error) {
	var entries []models.Attendance
	err := r.db.
		Where("date BETWEEN ? AND ?", start, end).
		Where("net_office_time IS NOT NULL AND net_office_time < ?", limit).
		Order("date, name").
		Find(&entries).Error
	return entries, err
}

// LatestDate reports the most recent attendance date in the store; ok is
// false when the store is empty.
func (r *AttendanceRepository) LatestDate() (time.Time, bool, error) {
	var entry models.Attendance
	err := r.db.Order("date DESC").First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return entry.Date, true, nil
}

// NamesByEmployeeID returns the distinct canonical names whose attendance
// rows in range carry the given employee id (case-insensitive exact match).
func (r *AttendanceRepository) NamesByEmployeeID(id string, start, end time.Time) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Attendance{}).
		Where("LOWER(employee_id) = LOWER(?)", id).
		Where("date BETWEEN ? AND ?", start, end).
		Distinct().
		Pluck("name", &names).Error
	return names, err
}

// EmployeeID returns the employee id from the first attendance row bearing
// the name, any date; empty when the person has no attendance at all.
func (r *AttendanceRepository) EmployeeID(name string) (string, error) {
	var entry models.Attendance
	err := r.db.Where("name = ?", name).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.EmployeeID, nil
}
