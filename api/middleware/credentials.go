package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/utils"
)

const ActorIdHeader = "X-Actor-Id"

// NewCredentials reads the acting user from the trusted header set by the
// host application's gateway. Authentication itself happens upstream; an
// absent or malformed header means an anonymous actor.
func NewCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, err := strconv.ParseInt(c.GetHeader(ActorIdHeader), 10, 64)
		if err != nil || actorId < 0 {
			actorId = 0
		}

		c.Request = c.Request.WithContext(
			utils.StoreCredentialsInContext(c.Request.Context(),
				models.Credentials{ActorId: actorId}))
		c.Next()
	}
}
