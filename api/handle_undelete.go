package api

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/dto"
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/usecases"
)

func handleUndeleteEntity(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		entityName := models.EntityName(c.Param("entity_name"))
		entityId, err := strconv.ParseInt(c.Param("entity_id"), 10, 64)
		if err != nil || entityId <= 0 {
			presentError(c, errors.Wrap(models.BadParameterError, "entity_id must be a positive integer"))
			return
		}

		usecase := uc.NewUndeleteUsecase()
		result, err := usecase.UndeleteEntity(c.Request.Context(), entityName, entityId)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"undelete": dto.AdaptUndeleteResultDto(result),
		})
	}
}
