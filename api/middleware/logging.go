package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/curatehub/chronicle-backend/utils"
)

type loggingConfig struct {
	logger     *slog.Logger
	ignorePath map[string]struct{}

	defaultLevel     slog.Level
	clientErrorLevel slog.Level
	serverErrorLevel slog.Level
}

type LoggingOption func(*loggingConfig)

func WithIgnorePath(paths ...string) LoggingOption {
	return func(c *loggingConfig) {
		for _, path := range paths {
			c.ignorePath[path] = struct{}{}
		}
	}
}

// NewLogging logs one line per request, with the level escalating on 4xx and
// 5xx statuses. It also stores the request-scoped logger in the context so
// downstream code logs with the request id attached.
func NewLogging(logger *slog.Logger, options ...LoggingOption) gin.HandlerFunc {
	conf := &loggingConfig{
		logger:           logger,
		ignorePath:       map[string]struct{}{},
		defaultLevel:     slog.LevelInfo,
		clientErrorLevel: slog.LevelWarn,
		serverErrorLevel: slog.LevelError,
	}
	for _, option := range options {
		option(conf)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		requestLogger := conf.logger
		if requestId := utils.RequestIdFromContext(c.Request.Context()); requestId != "" {
			requestLogger = requestLogger.With(slog.String("request_id", requestId))
		}
		c.Request = c.Request.WithContext(
			utils.StoreLoggerInContext(c.Request.Context(), requestLogger))

		if _, ok := conf.ignorePath[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start).Milliseconds()

		status := c.Writer.Status()
		level := conf.defaultLevel
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			level = conf.clientErrorLevel
		}
		if status >= http.StatusInternalServerError {
			level = conf.serverErrorLevel
		}

		attributes := []slog.Attr{
			slog.Int("status", status),
			slog.Int64("latency", latency),
			slog.String("client_ip", c.ClientIP()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		}
		if c.Errors != nil {
			attributes = append(attributes, slog.String("error", c.Errors.String()))
		}
		requestLogger.LogAttrs(c.Request.Context(), level,
			fmt.Sprintf("%s %s", c.Request.Method, path), attributes...)
	}
}
