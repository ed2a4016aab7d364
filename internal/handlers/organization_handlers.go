package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"access-service/internal/middleware"
	"access-service/internal/models"
	"access-service/internal/services"
)

// OrganizationHandler serves the organization directory, hierarchy and
// department endpoints
type OrganizationHandler struct {
	orgs      *services.OrganizationService
	hierarchy *services.HierarchyService
}

func NewOrganizationHandler(orgs *services.OrganizationService, hierarchy *services.HierarchyService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, hierarchy: hierarchy}
}

// Register creates an organization with its first admin account
// @Summary Register an organization
// @Description Self-service onboarding: creates an organization and its first admin user
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body models.RegisterOrganizationRequest true "Registration request"
// @Success 201 {object} models.OrganizationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/organizations/register [post]
func (h *OrganizationHandler) Register(c *gin.Context) {
	var req models.RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, admin, err := h.orgs.Register(&req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    org,
		"admin":   admin.ToDTO(),
	})
}

// Create creates an organization
// @Summary Create an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body models.CreateOrganizationRequest true "Organization"
// @Success 201 {object} models.OrganizationResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req models.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgs.Create(&req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.OrganizationResponse{Success: true, Data: org})
}

// Get returns one organization
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.OrganizationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/organizations/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	org, err := h.orgs.Get(id)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrganizationResponse{Success: true, Data: org})
}

// List pages through the organization directory
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.OrganizationListResponse
// @Router /api/v1/organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	orgs, pagination, err := h.orgs.List(page, limit)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrganizationListResponse{
		Success:    true,
		Data:       orgs,
		Pagination: pagination,
	})
}

// Update edits an organization
// @Summary Update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body models.UpdateOrganizationRequest true "Updates"
// @Success 200 {object} models.OrganizationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/organizations/{id} [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	org, err := h.orgs.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrganizationResponse{Success: true, Data: org})
}

// ListChildren lists the facilities linked under a headquarters
// @Summary List child organizations
// @Tags organizations
// @Produce json
// @Param id path string true "Parent organization ID"
// @Success 200 {object} models.OrganizationListResponse
// @Router /api/v1/organizations/{id}/children [get]
func (h *OrganizationHandler) ListChildren(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	children, err := h.orgs.ListChildren(id)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.OrganizationListResponse{Success: true, Data: children})
}

// Link attaches an organization to a headquarters parent
// @Summary Link an organization to a headquarters
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Child organization ID"
// @Param request body models.LinkOrganizationRequest true "Parent"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/v1/organizations/{id}/link [post]
func (h *OrganizationHandler) Link(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.LinkOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actorID := actorIDPtr(c)
	if err := h.hierarchy.Link(c.Request.Context(), id, req.ParentOrganizationID, actorID); err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Organization linked"})
}

// Unlink detaches an organization from its headquarters
// @Summary Unlink an organization from its headquarters
// @Tags organizations
// @Produce json
// @Param id path string true "Child organization ID"
// @Success 200 {object} models.MessageResponse
// @Router /api/v1/organizations/{id}/link [delete]
func (h *OrganizationHandler) Unlink(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actorID := actorIDPtr(c)
	if err := h.hierarchy.Unlink(c.Request.Context(), id, actorID); err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Organization unlinked"})
}

// CreateDepartment creates a department in an organization
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body models.CreateDepartmentRequest true "Department"
// @Success 201 {object} gin.H
// @Router /api/v1/organizations/{id}/departments [post]
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	dept, err := h.orgs.CreateDepartment(orgCtx, id, &req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": dept})
}

// ListDepartments lists the departments of an organization
// @Summary List departments
// @Tags departments
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.DepartmentListResponse
// @Router /api/v1/organizations/{id}/departments [get]
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	depts, err := h.orgs.ListDepartments(orgCtx, id)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DepartmentListResponse{Success: true, Data: depts})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "BAD_REQUEST",
				Message: "Invalid id",
				Field:   name,
			},
			RequestID: c.GetString("request_id"),
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "VALIDATION_FAILED",
			Message: err.Error(),
		},
		RequestID: c.GetString("request_id"),
	})
}

func actorIDPtr(c *gin.Context) *uuid.UUID {
	if orgCtx, ok := middleware.GetOrganizationContext(c); ok {
		id := orgCtx.User.ID
		return &id
	}
	return nil
}
