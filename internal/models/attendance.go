package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Attendance is one day of one person's attendance export, keyed by the
// canonical name and date. Time columns are nil when the export carried no
// usable value for them.
type Attendance struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"index;uniqueIndex:idx_attendance_name_date"`
	Date             time.Time `gorm:"type:date;uniqueIndex:idx_attendance_name_date"`
	EmployeeID       string    `gorm:"index"`
	UserType         string
	Designation      string
	Department       string
	Location         string
	FirstIn          *datatypes.Time
	LastOut          *datatypes.Time
	GrossTime        *datatypes.Time
	OutOfOfficeTime  *datatypes.Time
	OutOfOfficeCount *int
	NetOfficeTime    *datatypes.Time
	CreatedAt        time.Time
}
