package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the clinical or operational role of a staff member.
// Each role is licensed by a plan feature key; see the entitlements package.
type UserRole string

const (
	RoleHCW           UserRole = "hcw"
	RoleReceptionist  UserRole = "receptionist"
	RoleNurse         UserRole = "nurse"
	RolePharmacist    UserRole = "pharmacist"
	RoleLabTechnician UserRole = "lab_technician"
	RoleLogistics     UserRole = "logistics"
	RoleAdmin         UserRole = "admin"
)

// AllRoles lists every assignable role in display order
var AllRoles = []UserRole{
	RoleHCW,
	RoleReceptionist,
	RoleNurse,
	RolePharmacist,
	RoleLabTechnician,
	RoleLogistics,
	RoleAdmin,
}

// Valid reports whether the role is a known enum value
func (r UserRole) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequiresDepartment reports whether staff with this role must be assigned
// to at least one department
func (r UserRole) RequiresDepartment() bool {
	return r == RoleHCW || r == RoleNurse
}

// User represents a staff account. Email is stored lowercased and carries a
// unique index; the index, not the pre-check, is what closes the
// concurrent-creation race.
type User struct {
	ID                    uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                  string          `json:"name" gorm:"not null"`
	Email                 string          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash          string          `json:"-" gorm:"not null"`
	Role                  UserRole        `json:"role" gorm:"type:varchar(32);not null;index"`
	CurrentOrganizationID uuid.UUID       `json:"currentOrganizationId" gorm:"type:uuid;not null"`
	IsActive              bool            `json:"isActive" gorm:"default:true"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	DeletedAt             *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`

	// Relationships
	Organizations       []Organization `json:"organizations,omitempty" gorm:"many2many:user_organizations"`
	Departments         []Department   `json:"departments,omitempty" gorm:"many2many:user_departments"`
	CurrentOrganization *Organization  `json:"currentOrganization,omitempty" gorm:"foreignKey:CurrentOrganizationID"`
}

func (User) TableName() string {
	return "users"
}

// MemberOf reports whether the user holds a membership in the organization
func (u *User) MemberOf(orgID uuid.UUID) bool {
	for _, org := range u.Organizations {
		if org.ID == orgID {
			return true
		}
	}
	return false
}

// OrganizationIDs returns the ids of the user's memberships
func (u *User) OrganizationIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Organizations))
	for _, org := range u.Organizations {
		ids = append(ids, org.ID)
	}
	return ids
}

// DepartmentIDs returns the ids of the user's department assignments
func (u *User) DepartmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Departments))
	for _, dept := range u.Departments {
		ids = append(ids, dept.ID)
	}
	return ids
}

// StaffAssignmentRequest is the transient input for creating a staff account.
// On success it produces a User plus one membership row per organization id.
type StaffAssignmentRequest struct {
	Name            string      `json:"name" binding:"required"`
	Email           string      `json:"email" binding:"required,email"`
	Password        string      `json:"password,omitempty"`
	Role            UserRole    `json:"role" binding:"required"`
	DepartmentIDs   []uuid.UUID `json:"departmentIds,omitempty"`
	OrganizationIDs []uuid.UUID `json:"organizationIds" binding:"required"`
}

// UpdateStaffRequest represents a request to edit a staff account.
// Nil fields are left unchanged.
type UpdateStaffRequest struct {
	Name            *string      `json:"name,omitempty"`
	Email           *string      `json:"email,omitempty" binding:"omitempty,email"`
	Password        *string      `json:"password,omitempty"`
	Role            *UserRole    `json:"role,omitempty"`
	DepartmentIDs   *[]uuid.UUID `json:"departmentIds,omitempty"`
	OrganizationIDs *[]uuid.UUID `json:"organizationIds,omitempty"`
}

// SwitchOrganizationRequest selects a different membership as the acting organization
type SwitchOrganizationRequest struct {
	OrganizationID uuid.UUID `json:"organizationId" binding:"required"`
}

// UserDTO is a safe response shape for staff accounts (never exposes the
// password hash)
type UserDTO struct {
	ID                    uuid.UUID      `json:"id"`
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	Role                  UserRole       `json:"role"`
	CurrentOrganizationID uuid.UUID      `json:"currentOrganizationId"`
	OrganizationIDs       []uuid.UUID    `json:"organizationIds"`
	DepartmentIDs         []uuid.UUID    `json:"departmentIds,omitempty"`
	IsActive              bool           `json:"isActive"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

// ToDTO converts a User to its safe response shape
func (u *User) ToDTO() *UserDTO {
	return &UserDTO{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Role:                  u.Role,
		CurrentOrganizationID: u.CurrentOrganizationID,
		OrganizationIDs:       u.OrganizationIDs(),
		DepartmentIDs:         u.DepartmentIDs(),
		IsActive:              u.IsActive,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

// UserResponse represents a single staff API response
type UserResponse struct {
	Success bool     `json:"success"`
	Data    *UserDTO `json:"data,omitempty"`
	Message *string  `json:"message,omitempty"`
}

// UserListResponse represents a list of staff API response
type UserListResponse struct {
	Success    bool            `json:"success"`
	Data       []UserDTO       `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// RoleListResponse represents the assignable-roles API response
type RoleListResponse struct {
	Success bool       `json:"success"`
	Data    []UserRole `json:"data"`
}
