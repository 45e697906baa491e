// Command agencyhub levanta la API de auth multi-tenant y sus tareas de mantenimiento.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/agencyhub/internal/config"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

func main() {
	var (
		configPath = envOr("CONFIG_PATH", "")
		envFile    = ".env"
	)

	root := &cobra.Command{
		Use:           "agencyhub",
		Short:         "API de autenticación para agencias (multi-tenant)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "ruta a config.yaml (env CONFIG_PATH); vacío = solo env")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "archivo .env a cargar si existe")

	// loadConfig se resuelve en RunE para que los flags ya estén parseados.
	loadConfig := func() (*config.Config, error) {
		if envFile != "" {
			if _, err := os.Stat(envFile); err == nil {
				if err := godotenv.Load(envFile); err != nil {
					return nil, fmt.Errorf("dotenv %s: %w", envFile, err)
				}
			}
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "agencyhub"})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newTokensCmd(loadConfig),
	)

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type configLoader func() (*config.Config, error)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
