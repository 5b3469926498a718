package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadBatch is the audit record for one processed roster/attendance upload.
type UploadBatch struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	RosterFilename     string
	AttendanceFilename string
	Year               int
	Month              int
	RosterRecords      int
	AttendanceRecords  int
	MatchedNames       int
	DroppedNames       int
	Status             string
	CreatedAt          time.Time
}
