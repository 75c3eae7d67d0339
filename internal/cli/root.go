// Package cli implements the tracker command line tool.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabriel/reading-tracker/backend/internal/app"
	"github.com/gabriel/reading-tracker/backend/internal/config"
	"github.com/gabriel/reading-tracker/backend/internal/database"
)

var flagDebug bool

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Scrape series pages and keep the reading list current",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and installs a text logger on stderr so
// command output on stdout stays clean.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if flagDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// openServices is for commands that need the database.
func openServices() (*app.Services, func(), error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	services, err := app.New(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return services, func() { db.Close() }, nil
}

func openDatabase(cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := database.ApplyMigrations(context.Background(), db, database.MigrationSource(cfg.MigrationsPath)); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
