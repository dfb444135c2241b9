package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curatehub/chronicle-backend/utils"
)

const RequestIdHeader = "X-Request-Id"

// NewRequestId reuses the caller's request id when one is provided, so the
// audit trail can be correlated across services.
func NewRequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}

		c.Request = c.Request.WithContext(
			utils.StoreRequestIdInContext(c.Request.Context(), requestId))
		c.Header(RequestIdHeader, requestId)
		c.Next()
	}
}
