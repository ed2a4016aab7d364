package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"access-service/internal/entitlements"
	"access-service/internal/models"
)

// RequireFeature guards a route group behind a feature key. The acting
// organization must hold the feature under its plan; headquarters
// organizations pass every check.
func RequireFeature(evaluator entitlements.Evaluator, feature entitlements.FeatureKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgCtx, ok := GetOrganizationContext(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		if !evaluator.CanAccessFeature(orgCtx.Organization, feature) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FORBIDDEN",
					Message: "Your plan does not include this feature",
				},
				RequestID: c.GetString("request_id"),
			})
			return
		}

		c.Next()
	}
}
