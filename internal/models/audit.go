package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by this service
const (
	AuditActionStaffCreated     = "staff_created"
	AuditActionStaffUpdated     = "staff_updated"
	AuditActionStaffDeactivated = "staff_deactivated"
	AuditActionOrgLinked        = "org_linked"
	AuditActionOrgUnlinked      = "org_unlinked"
	AuditActionAssignmentDenied = "assignment_denied"
)

// AccessAuditLog records hierarchy changes, staff assignments and denied
// assignment attempts
type AccessAuditLog struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Action         string     `json:"action" gorm:"not null;index"`
	EntityType     string     `json:"entityType" gorm:"not null"` // 'user', 'organization'
	EntityID       *uuid.UUID `json:"entityId,omitempty" gorm:"type:uuid"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty" gorm:"type:uuid;index"`
	PerformedBy    *uuid.UUID `json:"performedBy,omitempty" gorm:"type:uuid;index"`
	Details        *JSON      `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (AccessAuditLog) TableName() string {
	return "access_audit_log"
}

// AuditListResponse represents a list of audit entries API response
type AuditListResponse struct {
	Success    bool             `json:"success"`
	Data       []AccessAuditLog `json:"data"`
	Pagination *PaginationInfo  `json:"pagination,omitempty"`
}
