package cmd

import (
	"context"
	"fmt"

	"github.com/curatehub/chronicle-backend/repositories"
	"github.com/curatehub/chronicle-backend/utils"
)

func RunMigrations() error {
	logger := utils.NewLogger(utils.GetStringEnv("ENV", "development"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := repositories.RunMigrations(pgConfigFromEnv(), logger); err != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("error running migrations: %v", err))
		return err
	}
	return nil
}
