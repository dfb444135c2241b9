package cmd

import (
	"github.com/curatehub/chronicle-backend/utils"
)

func pgConfigFromEnv() utils.PGConfig {
	return utils.PGConfig{
		ConnectionString: utils.GetStringEnv("PG_CONNECTION_STRING", ""),
		Hostname:         utils.GetStringEnv("PG_HOSTNAME", "localhost"),
		Port:             utils.GetStringEnv("PG_PORT", "5432"),
		User:             utils.GetStringEnv("PG_USER", "postgres"),
		Password:         utils.GetStringEnv("PG_PASSWORD", ""),
		Database:         utils.GetStringEnv("PG_DATABASE", "chronicle"),
	}
}
