package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"access-service/internal/models"
	"access-service/internal/services"
)

// ErrorHandler converts errors attached to the gin context into the standard
// error envelope
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			HandleServiceError(c, c.Errors.Last().Err)
		}
	}
}

// HandleServiceError maps a service-layer error to the platform error
// envelope. Authorization failures always carry the same generic message so
// the API does not reveal whether an organization exists.
func HandleServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Access denied")
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, ve.Code, ve.Message)
	case errors.Is(err, services.ErrInvalidHierarchy):
		respondError(c, http.StatusBadRequest, "INVALID_HIERARCHY", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		}).Error("Unhandled service error")
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: c.GetString("request_id"),
	})
}
