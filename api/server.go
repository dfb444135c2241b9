package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/usecases"
)

func NewServer(router *gin.Engine, conf Configuration, uc usecases.Usecases) *http.Server {
	addRoutes(router, uc)

	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", conf.Port),
		WriteTimeout: conf.RequestTimeout,
		ReadTimeout:  conf.RequestTimeout,
		IdleTimeout:  conf.RequestTimeout,
		Handler:      router,
	}
}
