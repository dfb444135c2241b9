package api

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/dto"
	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/pure_utils"
	"github.com/curatehub/chronicle-backend/usecases"
)

func handleListHistoryEvents(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var filtersInput dto.HistoryEventFiltersInput
		if err := c.ShouldBindQuery(&filtersInput); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}
		var paginationInput dto.PaginationAndSortingInput
		if err := c.ShouldBindQuery(&paginationInput); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		filters, err := dto.AdaptHistoryEventFilters(filtersInput)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewHistoryUsecase()
		events, err := usecase.ListHistoryEvents(c.Request.Context(), filters,
			dto.AdaptPaginationAndSorting(paginationInput))
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"history_events": pure_utils.Map(events, dto.AdaptHistoryEventDto),
		})
	}
}

func handleGetHistoryEvent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		eventId, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
		if err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, "event_id must be an integer"))
			return
		}

		usecase := uc.NewHistoryUsecase()
		details, err := usecase.GetHistoryEventDetails(c.Request.Context(), eventId)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"history_event": dto.AdaptHistoryEventDetailsDto(details),
		})
	}
}

func handlePostHistoryEvent(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var body dto.CreateHistoryEventBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewHistoryUsecase()
		event, err := usecase.CreateHistoryEvent(c.Request.Context(),
			dto.AdaptCreateHistoryEventInput(body))
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"history_event": dto.AdaptHistoryEventDto(event),
		})
	}
}
