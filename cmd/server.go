package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/curatehub/chronicle-backend/api"
	"github.com/curatehub/chronicle-backend/infra"
	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/usecases"
	"github.com/curatehub/chronicle-backend/utils"
)

func RunServer() error {
	apiConfig := api.Configuration{
		Env:            utils.GetStringEnv("ENV", "development"),
		AppName:        "chronicle-backend",
		Port:           utils.GetRequiredStringEnv("PORT"),
		AllowedOrigins: splitOrigins(utils.GetStringEnv("CORS_ALLOWED_ORIGINS", "")),
		RequestTimeout: time.Duration(utils.GetIntEnv("REQUEST_TIMEOUT_SECOND", 15)) * time.Second,
	}

	logger := utils.NewLogger(apiConfig.Env)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx,
		pgConfigFromEnv().GetConnectionString(),
		utils.GetIntEnv("PG_MAX_POOL_SIZE", infra.DefaultMaxConnections))
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := usecases.NewUsecases(repositories.NewRepositories(pool))

	router := api.InitRouterMiddlewares(ctx, apiConfig)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "error while serving the app: "+err.Error())
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error while shutting down the server")
	}
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
