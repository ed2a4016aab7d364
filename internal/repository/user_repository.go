package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"access-service/internal/models"
)

// UserRepository is the storage surface for staff accounts and their
// organization memberships
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)

	// FindByEmail matches case-insensitively. Returns (nil, nil) when no
	// user has the email.
	FindByEmail(email string) (*models.User, error)

	// Create persists the user, its membership rows and its department
	// assignments in one transaction.
	Create(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error

	// Update saves the user and, when the id slices are non-nil, replaces
	// the membership and department rows.
	Update(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error

	SetCurrentOrganization(userID, orgID uuid.UUID) error
	ListOrganizations(userID uuid.UUID) ([]models.Organization, error)
	ListByOrganization(orgID uuid.UUID, page, limit int) ([]models.User, *models.PaginationInfo, error)
	Deactivate(userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("Organizations").
		Preload("Departments").
		Preload("CurrentOrganization").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error {
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := replaceAssociation(tx, user, "Organizations", orgRefs(organizationIDs)); err != nil {
			return err
		}
		return replaceAssociation(tx, user, "Departments", deptRefs(departmentIDs))
	})
}

func (r *userRepository) Update(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error {
	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Organizations", "Departments").Save(user).Error; err != nil {
			return err
		}
		if organizationIDs != nil {
			if err := replaceAssociation(tx, user, "Organizations", orgRefs(organizationIDs)); err != nil {
				return err
			}
		}
		if departmentIDs != nil {
			if err := replaceAssociation(tx, user, "Departments", deptRefs(departmentIDs)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) SetCurrentOrganization(userID, orgID uuid.UUID) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"current_organization_id": orgID,
			"updated_at":              time.Now(),
		}).Error
}

func (r *userRepository) ListOrganizations(userID uuid.UUID) ([]models.Organization, error) {
	user := models.User{ID: userID}
	var orgs []models.Organization
	err := r.db.Model(&user).Association("Organizations").Find(&orgs)
	return orgs, err
}

func (r *userRepository) ListByOrganization(orgID uuid.UUID, page, limit int) ([]models.User, *models.PaginationInfo, error) {
	base := r.db.Model(&models.User{}).
		Joins("JOIN user_organizations ON user_organizations.user_id = users.id").
		Where("user_organizations.organization_id = ?", orgID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var users []models.User
	offset := (page - 1) * limit
	err := base.Preload("Organizations").Preload("Departments").
		Order("users.created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, nil, err
	}

	return users, models.NewPaginationInfo(page, limit, total), nil
}

func (r *userRepository) Deactivate(userID uuid.UUID) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func replaceAssociation(tx *gorm.DB, user *models.User, name string, refs interface{}) error {
	return tx.Model(user).Association(name).Replace(refs)
}

func orgRefs(ids []uuid.UUID) []models.Organization {
	refs := make([]models.Organization, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Organization{ID: id})
	}
	return refs
}

func deptRefs(ids []uuid.UUID) []models.Department {
	refs := make([]models.Department, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Department{ID: id})
	}
	return refs
}
