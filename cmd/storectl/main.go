package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/mbvogue/storefront/internal/infrastructure/logger"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "storectl",
	Short:         "Storefront maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(setPricesCmd)
	rootCmd.AddCommand(purgeCheckoutsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command needs: configuration, a logger and the database
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func (e *env) Close() {
	_ = e.db.Close()
	_ = e.log.Sync()
}

func boot(ctx context.Context) (*env, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, err
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel("warn"))
	db, err := persistence.NewDatabase(ctx, &cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}
