package main

import (
	"fmt"
	"net"
	"os"

	handlers "github.com/de-tools/sales-atlas/pkg/handlers/analysis"
	applog "github.com/de-tools/sales-atlas/pkg/logger"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/normalize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profile      string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Sales Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML/JSON/TOML settings file")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "", "Path to an ini file of column-mapping profiles")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Column-mapping profile to apply to every upload")
	rootCmd.MarkFlagsRequiredTogether("profile", "profiles")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := applog.NewWithWriter(os.Stdout)
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var columns normalize.ColumnMapping
	if profile != "" {
		registry, err := config.NewProfileRegistry(profilesPath)
		if err != nil {
			return err
		}
		columns, err = registry.GetColumns(ctx, profile)
		if err != nil {
			return err
		}
		logger.Info().Msgf("Column profile `%s` loaded from `%s`.", profile, profilesPath)
	}

	registry := forecast.DefaultRegistry()
	runner, err := cfg.Build(registry, columns)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	logger.Info().
		Str("forecaster", cfg.Forecaster).
		Int("min_history", cfg.MinHistory).
		Int("top_n", cfg.TopN).
		Int("horizon", cfg.Horizon).
		Msg("pipeline configured")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Analysis: handlers.Settings{
			TopN:       cfg.TopN,
			Horizon:    cfg.Horizon,
			Forecaster: cfg.Forecaster,
		},
		Dependencies: server.Dependencies{
			Runner:   runner,
			Registry: registry,
			Logger:   logger,
		},
	})

	return api.Start()
}
