package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"access-service/internal/services"
)

const orgContextKey = "org_context"

// OrganizationContextMiddleware resolves the acting (user, organization) pair
// for the request. The optional X-Organization-ID header selects one of the
// user's memberships; without it the stored current organization is used.
// Resolution failures are reported with the same generic message regardless
// of cause.
func OrganizationContextMiddleware(resolver *services.ContextResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		var requestedOrgID *uuid.UUID
		if raw := c.GetHeader("X-Organization-ID"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				abortUnauthorized(c)
				return
			}
			requestedOrgID = &id
		}

		orgCtx, err := resolver.Resolve(userID, requestedOrgID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(orgContextKey, orgCtx)
		c.Next()
	}
}

// GetOrganizationContext retrieves the resolved organization context from gin
// context
func GetOrganizationContext(c *gin.Context) (*services.OrganizationContext, bool) {
	v, ok := c.Get(orgContextKey)
	if !ok {
		return nil, false
	}
	orgCtx, ok := v.(*services.OrganizationContext)
	return orgCtx, ok
}
