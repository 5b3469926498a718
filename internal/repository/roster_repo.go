package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendance-reconciliation-backend/internal/models"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Expose DB if needed
func (r *RosterRepository) DB() *gorm.DB {
	return r.db
}

// Upsert writes one roster day. A row with the same (name, date) is
// overwritten, so re-uploading a month corrects earlier data.
func (r *RosterRepository) Upsert(entry *models.Roster) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"team", "schedule"}),
	}).Create(entry).Error
}

// InRange returns all roster days between start and end inclusive.
func (r *RosterRepository) InRange(start, end time.Time) ([]models.Roster, error) {
	var entries []models.Roster
	err := r.db.
		Where("date BETWEEN ? AND ?", start, end).
		Order("date, name").
		Find(&entries).Error
	return entries, err
}
