package database

import (
	"context"
	"fmt"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/logger"

	_ "github.com/godror/godror" // registers "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
)

// Open connects to Oracle with the driver named in cfg.DB.Driver and pings it.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	switch driver {
	case "oracle", "godror":
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want oracle or godror)", driver)
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Connected to Oracle database",
		zap.String("driver", driver),
		zap.String("host", cfg.DB.Host),
		zap.Int("port", cfg.DB.Port),
		zap.String("service", cfg.DB.DBName),
	)
	return db, nil
}
