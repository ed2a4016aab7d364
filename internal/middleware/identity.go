package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"access-service/internal/models"
)

const identityKey = "user_id"

// IdentityMiddleware establishes the authenticated user id for the request.
// Behind the service mesh the gateway verifies the JWT and forwards the
// subject in x-jwt-claim-sub (or X-User-ID in internal calls); when neither
// header is present the Bearer token is verified locally with the shared
// secret. Requests without a resolvable identity are rejected with a generic
// message.
func IdentityMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("x-jwt-claim-sub")
		if raw == "" {
			raw = c.GetHeader("X-User-ID")
		}
		if raw == "" {
			raw = subjectFromBearer(c, jwtSecret)
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(identityKey, userID)
		c.Next()
	}
}

func subjectFromBearer(c *gin.Context, secret string) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// GetUserID retrieves the authenticated user id from gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "UNAUTHORIZED",
			Message: "Access denied",
		},
		RequestID: c.GetString("request_id"),
	})
}
