package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"access-service/internal/middleware"
	"access-service/internal/models"
	"access-service/internal/services"
)

// StaffHandler serves the staff assignment endpoints. Every operation runs
// under the actor's resolved organization context.
type StaffHandler struct {
	staff *services.StaffService
}

func NewStaffHandler(staff *services.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// Create creates a staff account
// @Summary Create a staff member
// @Description Validates the assignment against the actor's plan and memberships, then creates the account
// @Tags staff
// @Accept json
// @Produce json
// @Param request body models.StaffAssignmentRequest true "Staff assignment"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/v1/staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	var req models.StaffAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.staff.CreateStaff(c.Request.Context(), orgCtx, &req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.UserResponse{Success: true, Data: user.ToDTO()})
}

// Update edits a staff account
// @Summary Update a staff member
// @Tags staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param request body models.UpdateStaffRequest true "Updates"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/v1/staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.staff.UpdateStaff(c.Request.Context(), orgCtx, id, &req)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{Success: true, Data: user.ToDTO()})
}

// Get returns one staff account
// @Summary Get a staff member
// @Tags staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.staff.GetStaff(orgCtx, id)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{Success: true, Data: user.ToDTO()})
}

// List pages through the staff of the acting organization
// @Summary List staff members
// @Tags staff
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} models.UserListResponse
// @Router /api/v1/staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	page, limit := parsePagination(c)
	users, pagination, err := h.staff.ListStaff(orgCtx, page, limit)
	if err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	dtos := make([]models.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *users[i].ToDTO())
	}

	c.JSON(http.StatusOK, models.UserListResponse{
		Success:    true,
		Data:       dtos,
		Pagination: pagination,
	})
}

// Deactivate soft-disables a staff account
// @Summary Deactivate a staff member
// @Tags staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/staff/{id} [delete]
func (h *StaffHandler) Deactivate(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.staff.DeactivateStaff(c.Request.Context(), orgCtx, id); err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Staff member deactivated"})
}

// AssignableRoles returns the roles the acting organization may assign
// @Summary List assignable roles
// @Description Returns the staff roles the acting organization's plan licenses, for the staff-form role selector
// @Tags staff
// @Produce json
// @Success 200 {object} models.RoleListResponse
// @Router /api/v1/staff/assignable-roles [get]
func (h *StaffHandler) AssignableRoles(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, models.RoleListResponse{
		Success: true,
		Data:    h.staff.AssignableRoles(orgCtx),
	})
}
