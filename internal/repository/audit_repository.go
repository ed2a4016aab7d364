package repository

import (
	"time"

	"gorm.io/gorm"

	"access-service/internal/models"
)

// AuditRepository is the storage surface for the access audit trail
type AuditRepository interface {
	Create(entry *models.AccessAuditLog) error
	List(filters map[string]interface{}, page, limit int) ([]models.AccessAuditLog, *models.PaginationInfo, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *models.AccessAuditLog) error {
	entry.CreatedAt = time.Now()
	return r.db.Create(entry).Error
}

func (r *auditRepository) List(filters map[string]interface{}, page, limit int) ([]models.AccessAuditLog, *models.PaginationInfo, error) {
	query := r.db.Model(&models.AccessAuditLog{})
	for field, value := range filters {
		query = query.Where(field+" = ?", value)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var entries []models.AccessAuditLog
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, nil, err
	}

	return entries, models.NewPaginationInfo(page, limit, total), nil
}
