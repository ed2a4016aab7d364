package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"access-service/internal/models"
)

// DepartmentRepository is the storage surface for department records
type DepartmentRepository interface {
	Create(dept *models.Department) error
	GetByIDs(ids []uuid.UUID) ([]models.Department, error)
	ListByOrganization(orgID uuid.UUID) ([]models.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(dept *models.Department) error {
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = time.Now()
	return r.db.Create(dept).Error
}

func (r *departmentRepository) GetByIDs(ids []uuid.UUID) ([]models.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var depts []models.Department
	err := r.db.Where("id IN ?", ids).Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) ListByOrganization(orgID uuid.UUID) ([]models.Department, error) {
	var depts []models.Department
	err := r.db.Where("organization_id = ?", orgID).Order("name").Find(&depts).Error
	return depts, err
}
