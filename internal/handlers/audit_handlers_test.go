package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-service/internal/models"
	"access-service/internal/services"
)

type stubAuditRepo struct {
	gotFilters map[string]interface{}
}

func (s *stubAuditRepo) Create(entry *models.AccessAuditLog) error {
	return nil
}

func (s *stubAuditRepo) List(filters map[string]interface{}, page, limit int) ([]models.AccessAuditLog, *models.PaginationInfo, error) {
	s.gotFilters = filters
	return nil, models.NewPaginationInfo(page, limit, 0), nil
}

func newAuditRouter(repo *stubAuditRepo, orgCtx *services.OrganizationContext) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAuditHandler(repo)
	router.GET("/audit",
		func(c *gin.Context) {
			if orgCtx != nil {
				c.Set("org_context", orgCtx)
			}
			c.Next()
		},
		handler.List,
	)
	return router
}

func TestAuditListScopedToMemberships(t *testing.T) {
	acting := models.Organization{ID: uuid.New(), Name: "MedGroup HQ", Type: models.OrgTypeHeadquarters}
	other := models.Organization{ID: uuid.New(), Name: "Riverside Clinic", Type: models.OrgTypeClinic}
	foreignID := uuid.New()

	orgCtx := &services.OrganizationContext{
		User: &models.User{
			ID:            uuid.New(),
			Organizations: []models.Organization{acting, other},
		},
		Organization: &acting,
	}

	t.Run("defaults to the acting organization", func(t *testing.T) {
		repo := &stubAuditRepo{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/audit", nil)
		newAuditRouter(repo, orgCtx).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, acting.ID, repo.gotFilters["organization_id"])
	})

	t.Run("another membership may be requested", func(t *testing.T) {
		repo := &stubAuditRepo{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/audit?organizationId="+other.ID.String(), nil)
		newAuditRouter(repo, orgCtx).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, other.ID, repo.gotFilters["organization_id"])
	})

	t.Run("foreign organization is refused unqueried", func(t *testing.T) {
		repo := &stubAuditRepo{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/audit?organizationId="+foreignID.String(), nil)
		newAuditRouter(repo, orgCtx).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Nil(t, repo.gotFilters)
	})

	t.Run("missing context rejected", func(t *testing.T) {
		repo := &stubAuditRepo{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/audit", nil)
		newAuditRouter(repo, nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
