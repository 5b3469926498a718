package models

import (
	"time"

	"github.com/google/uuid"
)

// Roster is one scheduled day for one person, produced by reshaping the
// monthly roster grid. Name always holds the canonical roster spelling.
type Roster struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"index;uniqueIndex:idx_roster_name_date"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_roster_name_date"`
	Team      string
	Schedule  string
	CreatedAt time.Time
}
