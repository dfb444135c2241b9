package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/dto"
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
	"github.com/curatehub/chronicle-backend/usecases"
)

func handleListHistoryChanges(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var filtersInput dto.HistoryChangeFiltersInput
		if err := c.ShouldBindQuery(&filtersInput); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}
		var paginationInput dto.PaginationAndSortingInput
		if err := c.ShouldBindQuery(&paginationInput); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		filters, err := dto.AdaptHistoryChangeFilters(filtersInput)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewHistoryUsecase()
		changes, err := usecase.ListHistoryChanges(c.Request.Context(), filters,
			dto.AdaptPaginationAndSorting(paginationInput))
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"history_changes": pure_utils.Map(changes, dto.AdaptHistoryChangeDto),
		})
	}
}
