package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PauloHFS/avala/internal/config"
	"github.com/PauloHFS/avala/internal/db"
	"github.com/PauloHFS/avala/internal/logging"
)

func initDB() (*db.DualPool, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	pool, err := db.NewDualPool("sqlite3", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return pool, cfg, nil
}

func RunMigrate() {
	pool, cfg, err := initDB()
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	logging.Init(cfg.LogLevel)
	logger := logging.Get()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations executed successfully")
}
