package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"access-service/internal/middleware"
	"access-service/internal/models"
	"access-service/internal/services"
)

// MeHandler serves the endpoints scoped to the authenticated identity
type MeHandler struct {
	resolver *services.ContextResolver
	orgs     *services.OrganizationService
}

func NewMeHandler(resolver *services.ContextResolver, orgs *services.OrganizationService) *MeHandler {
	return &MeHandler{resolver: resolver, orgs: orgs}
}

// GetContext returns the resolved acting context for the request
// @Summary Get the acting context
// @Description Returns the authenticated user and the organization the request is acting under
// @Tags me
// @Produce json
// @Success 200 {object} gin.H
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/me/context [get]
func (h *MeHandler) GetContext(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         orgCtx.User.ToDTO(),
		"organization": orgCtx.Organization,
	})
}

// GetFeatures returns the feature list of the acting organization
// @Summary Get the acting organization's features
// @Description Returns every feature the acting organization holds under its plan
// @Tags me
// @Produce json
// @Success 200 {object} gin.H
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/me/features [get]
func (h *MeHandler) GetFeatures(c *gin.Context) {
	orgCtx, ok := middleware.GetOrganizationContext(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	features := h.orgs.Features(c.Request.Context(), orgCtx.Organization)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"organizationId": orgCtx.Organization.ID,
		"features":       features,
	})
}

// SwitchOrganization changes the stored current organization
// @Summary Switch the current organization
// @Description Selects a different membership as the identity's default acting organization
// @Tags me
// @Accept json
// @Produce json
// @Param request body models.SwitchOrganizationRequest true "Target organization"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/me/switch-organization [post]
func (h *MeHandler) SwitchOrganization(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.HandleServiceError(c, services.ErrUnauthorized)
		return
	}

	var req models.SwitchOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.resolver.SwitchOrganization(userID, req.OrganizationID); err != nil {
		middleware.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Current organization updated"})
}
