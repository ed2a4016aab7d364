package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationType classifies a healthcare organization
type OrganizationType string

const (
	OrgTypeHospital     OrganizationType = "hospital"
	OrgTypeClinic       OrganizationType = "clinic"
	OrgTypePharmacy     OrganizationType = "pharmacy"
	OrgTypeLaboratory   OrganizationType = "laboratory"
	OrgTypeHeadquarters OrganizationType = "headquarters"
)

// Plan represents a subscription tier
type Plan string

const (
	PlanBasic        Plan = "basic"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// Organization represents a facility or headquarters in the platform.
// The parent edge forms a strict two-level tree: a headquarters root and
// one level of child facilities. Only the hierarchy service writes
// ParentOrganizationID.
type Organization struct {
	ID                   uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                 string           `json:"name" gorm:"not null"`
	Type                 OrganizationType `json:"type" gorm:"type:varchar(32);not null;index"`
	Plan                 Plan             `json:"plan" gorm:"type:varchar(32);not null;default:'basic'"`
	ParentOrganizationID *uuid.UUID       `json:"parentOrganizationId,omitempty" gorm:"type:uuid;index"`
	IsActive             bool             `json:"isActive" gorm:"default:true"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
	DeletedAt            *gorm.DeletedAt  `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	ParentOrganization *Organization `json:"parentOrganization,omitempty" gorm:"foreignKey:ParentOrganizationID"`
}

func (Organization) TableName() string {
	return "organizations"
}

// IsHeadquarters reports whether the organization is a headquarters root
func (o *Organization) IsHeadquarters() bool {
	return o.Type == OrgTypeHeadquarters
}

// PlanOrDefault returns the organization's plan, defaulting to basic when unset
func (o *Organization) PlanOrDefault() Plan {
	if o.Plan == "" {
		return PlanBasic
	}
	return o.Plan
}

// Department represents a clinical or operational department within one organization
type Department struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID       `json:"organizationId" gorm:"type:uuid;not null;index"`
	Name           string          `json:"name" gorm:"not null"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (Department) TableName() string {
	return "departments"
}

// CreateOrganizationRequest represents a request to create an organization
type CreateOrganizationRequest struct {
	Name string           `json:"name" binding:"required"`
	Type OrganizationType `json:"type" binding:"required,oneof=hospital clinic pharmacy laboratory headquarters"`
	Plan *Plan            `json:"plan,omitempty" binding:"omitempty,oneof=basic professional enterprise"`
}

// UpdateOrganizationRequest represents a request to update an organization
type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty"`
	Plan     *Plan   `json:"plan,omitempty" binding:"omitempty,oneof=basic professional enterprise"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// RegisterOrganizationRequest creates an organization together with its first
// admin user in one step (self-service onboarding)
type RegisterOrganizationRequest struct {
	Organization  CreateOrganizationRequest `json:"organization" binding:"required"`
	AdminName     string                    `json:"adminName" binding:"required"`
	AdminEmail    string                    `json:"adminEmail" binding:"required,email"`
	AdminPassword string                    `json:"adminPassword" binding:"required"`
}

// LinkOrganizationRequest represents a request to attach an organization to a headquarters
type LinkOrganizationRequest struct {
	ParentOrganizationID uuid.UUID `json:"parentOrganizationId" binding:"required"`
}

// CreateDepartmentRequest represents a request to create a department
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// OrganizationResponse represents a single organization API response
type OrganizationResponse struct {
	Success bool          `json:"success"`
	Data    *Organization `json:"data,omitempty"`
	Message *string       `json:"message,omitempty"`
}

// OrganizationListResponse represents a list of organizations API response
type OrganizationListResponse struct {
	Success    bool            `json:"success"`
	Data       []Organization  `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// DepartmentListResponse represents a list of departments API response
type DepartmentListResponse struct {
	Success bool         `json:"success"`
	Data    []Department `json:"data"`
}
