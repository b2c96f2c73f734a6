package repository

import (
	"github.com/westeros-labs/lawsearch/internal/models"
	"gorm.io/gorm"
)

// QueryRecordRepositoryImpl implements models.QueryRecordRepository
type QueryRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewQueryRecordRepository(db *gorm.DB) models.QueryRecordRepository {
	return &QueryRecordRepositoryImpl{db: db}
}

func (r *QueryRecordRepositoryImpl) Create(record *models.QueryRecord) error {
	return r.db.Create(record).Error
}

func (r *QueryRecordRepositoryImpl) GetRecent(limit int) ([]models.QueryRecord, error) {
	var records []models.QueryRecord
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *QueryRecordRepositoryImpl) GetBySession(session string) ([]models.QueryRecord, error) {
	var records []models.QueryRecord
	err := r.db.Where("user_session = ?", session).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
