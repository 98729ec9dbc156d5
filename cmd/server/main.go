package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"taskify/internal/config"
	"taskify/internal/database"
	"taskify/internal/logging"
	"taskify/internal/server"

	"github.com/spf13/cobra"
)

// @title           Taskify API
// @version         1.0
// @description     Accounts and per-user task tracking.

// @BasePath  /
// @schemes http https

var envFile string

var rootCmd = &cobra.Command{
	Use:           "taskify",
	Short:         "Task tracking API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the store and serve the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured store and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		return runMigrate(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig() (*config.Config, *slog.Logger) {
	cfg := config.Load(envFile)
	return cfg, logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	stores, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(ctx); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	if err := stores.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	logger.Info("store migrated", "store", cfg.StoreDriver)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger := loadConfig()

	s, err := server.Init(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("server initialization failed: %w", err)
	}
	return s.Run()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
