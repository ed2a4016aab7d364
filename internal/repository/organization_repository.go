package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"access-service/internal/models"
)

// OrganizationRepository is the storage surface for organization records.
// It stores the validated parent edge but enforces no hierarchy rules of its
// own; shape invariants live in the hierarchy service.
type OrganizationRepository interface {
	Create(org *models.Organization) error
	GetByID(id uuid.UUID) (*models.Organization, error)
	Update(id uuid.UUID, updates *models.UpdateOrganizationRequest) error
	List(page, limit int) ([]models.Organization, *models.PaginationInfo, error)
	ListChildren(parentID uuid.UUID) ([]models.Organization, error)

	// SetParent writes the parent edge inside one transaction. Child and
	// parent rows are locked before validate runs, so two concurrent link
	// calls cannot both pass the depth check.
	SetParent(childID uuid.UUID, parentID *uuid.UUID, validate func(child, parent *models.Organization) error) error
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *models.Organization) error {
	if org.Plan == "" {
		org.Plan = models.PlanBasic
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()
	return r.db.Create(org).Error
}

func (r *organizationRepository) GetByID(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.Preload("ParentOrganization").First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(id uuid.UUID, updates *models.UpdateOrganizationRequest) error {
	values := map[string]interface{}{"updated_at": time.Now()}
	if updates.Name != nil {
		values["name"] = *updates.Name
	}
	if updates.Plan != nil {
		values["plan"] = *updates.Plan
	}
	if updates.IsActive != nil {
		values["is_active"] = *updates.IsActive
	}
	result := r.db.Model(&models.Organization{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *organizationRepository) List(page, limit int) ([]models.Organization, *models.PaginationInfo, error) {
	var orgs []models.Organization
	var total int64

	if err := r.db.Model(&models.Organization{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orgs).Error
	if err != nil {
		return nil, nil, err
	}

	return orgs, models.NewPaginationInfo(page, limit, total), nil
}

func (r *organizationRepository) ListChildren(parentID uuid.UUID) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.Where("parent_organization_id = ?", parentID).Order("name").Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) SetParent(childID uuid.UUID, parentID *uuid.UUID, validate func(child, parent *models.Organization) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var child models.Organization
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&child, "id = ?", childID).Error; err != nil {
			return err
		}

		var parent *models.Organization
		if parentID != nil {
			var p models.Organization
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&p, "id = ?", *parentID).Error; err != nil {
				return err
			}
			parent = &p
		}

		if validate != nil {
			if err := validate(&child, parent); err != nil {
				return err
			}
		}

		return tx.Model(&models.Organization{}).Where("id = ?", childID).
			Updates(map[string]interface{}{
				"parent_organization_id": parentID,
				"updated_at":             time.Now(),
			}).Error
	})
}
