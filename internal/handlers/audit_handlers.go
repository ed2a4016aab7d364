package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"access-service/internal/middleware"
	"access-service/internal/models"
	"access-service/internal/repository"
	"access-service/internal/services"
)

// AuditHandler serves the access audit trail
type AuditHandler struct {
	audit repository.AuditRepository
}

func NewAuditHandler(audit repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List pages through the audit trail of one of the actor's organizations.
// The organization filter always resolves to a membership: it defaults to the
// acting organization, and a requested id outside the actor's memberships is
// refused rather than queried.
// @Summary List audit entries
// @Description Lists hierarchy changes, staff assignments and denied assignment attempts for one of the actor's organizations
// @Tags audit
// @Produce json
// @Param action query string false "Filter by action"
// @Param organizationId query string false "Filter by organization (must be a membership)"
// @Param performedBy query string false "Filter by actor"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.AuditListResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/v1/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	orgID := orgCtx.Organization.ID
	if raw := c.Query("organizationId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBindError(c, err)
			return
		}
		if !orgCtx.User.MemberOf(id) {
			middleware.HandleServiceError(c, services.ErrForbidden)
			return
		}
		orgID = id
	}

	filters := map[string]interface{}{"organization_id": orgID}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}
	if raw := c.Query("performedBy"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBindError(c, err)
			return
		}
		filters["performed_by"] = id
	}

	page, limit := parsePagination(c)
	entries, pagination, err := h.audit.List(filters, page, limit)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuditListResponse{
		Success:    true,
		Data:       entries,
		Pagination: pagination,
	})
}
