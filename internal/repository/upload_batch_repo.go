package repository

import (
	"gorm.io/gorm"

	"attendance-reconciliation-backend/internal/models"
)

type UploadBatchRepository struct {
	db *gorm.DB
}

func NewUploadBatchRepository(db *gorm.DB) *UploadBatchRepository {
	return &UploadBatchRepository{db: db}
}

func (r *UploadBatchRepository) Create(batch *models.UploadBatch) error {
	return r.db.Create(batch).Error
}
