package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/usecases"
)

func addRoutes(r *gin.Engine, uc usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe)

	v1 := r.Group("/v1")

	v1.GET("/history-events", handleListHistoryEvents(uc))
	v1.POST("/history-events", handlePostHistoryEvent(uc))
	v1.GET("/history-events/:event_id", handleGetHistoryEvent(uc))

	v1.GET("/history-changes", handleListHistoryChanges(uc))

	v1.POST("/entities/:entity_name/:entity_id/undelete", handleUndeleteEntity(uc))
}

func handleLivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
