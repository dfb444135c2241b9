package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/utils"
)

// presentError renders err and reports whether the request is finished. The
// caller returns immediately on true.
func presentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var undeleteErr models.UndeleteError
	switch {
	case errors.As(err, &undeleteErr):
		presentUndeleteError(c, undeleteErr)
	case errors.Is(err, models.BadParameterError):
		c.JSON(http.StatusBadRequest, errorBody("bad_parameter", err))
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, errorBody("not_found", err))
	case errors.Is(err, models.ConflictError):
		c.JSON(http.StatusConflict, errorBody("conflict", err))
	default:
		utils.LoggerFromContext(c.Request.Context()).
			ErrorContext(c.Request.Context(), "unexpected error: "+err.Error())
		c.JSON(http.StatusInternalServerError, errorBody("internal_error", err))
	}
	return true
}

func presentUndeleteError(c *gin.Context, undeleteErr models.UndeleteError) {
	status := http.StatusUnprocessableEntity
	switch undeleteErr.Reason {
	case models.UndeleteEntityStillExists:
		status = http.StatusConflict
	case models.UndeleteStorageFailure:
		status = http.StatusInternalServerError
		utils.LoggerFromContext(c.Request.Context()).
			ErrorContext(c.Request.Context(), "undelete failed: "+undeleteErr.Error())
	}
	c.JSON(status, errorBody(string(undeleteErr.Reason), undeleteErr))
}

func errorBody(code string, err error) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": err.Error()}}
}
