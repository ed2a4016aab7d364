package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"access-service/internal/entitlements"
	"access-service/internal/models"
	"access-service/internal/services"
)

func newFeatureRouter(org *models.Organization, feature entitlements.FeatureKey) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if org != nil {
				c.Set("org_context", &services.OrganizationContext{
					User:         &models.User{},
					Organization: org,
				})
			}
			c.Next()
		},
		RequireFeature(entitlements.NewEvaluator(), feature),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return router
}

func TestRequireFeature(t *testing.T) {
	tests := []struct {
		name       string
		org        *models.Organization
		feature    entitlements.FeatureKey
		wantStatus int
	}{
		{
			name:       "enterprise org passes audit gate",
			org:        &models.Organization{Type: models.OrgTypeHospital, Plan: models.PlanEnterprise},
			feature:    entitlements.FeatureAuditLog,
			wantStatus: http.StatusOK,
		},
		{
			name:       "basic org blocked from audit gate",
			org:        &models.Organization{Type: models.OrgTypeClinic, Plan: models.PlanBasic},
			feature:    entitlements.FeatureAuditLog,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "headquarters passes any gate",
			org:        &models.Organization{Type: models.OrgTypeHeadquarters, Plan: models.PlanBasic},
			feature:    entitlements.FeatureMultiTenancy,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing context rejected",
			org:        nil,
			feature:    entitlements.FeatureAuditLog,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newFeatureRouter(tt.org, tt.feature)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestIdentityMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(IdentityMiddleware("test-secret"))
	router.GET("/whoami", func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String()})
	})

	t.Run("claim header accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("x-jwt-claim-sub", "6fa459ea-ee8a-3ca4-894e-db77e160355e")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "6fa459ea-ee8a-3ca4-894e-db77e160355e")
	})

	t.Run("missing identity rejected with generic message", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Access denied")
	})

	t.Run("malformed subject rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-User-ID", "not-a-uuid")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
