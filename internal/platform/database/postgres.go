package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/platform/config"
)

// NewPostgresDB opens the pool and pings it, retrying while the server comes up.
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	maxRetries := cfg.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var err error
	for i := 1; i <= maxRetries; i++ {
		log.Info("connecting to database",
			zap.String("host", cfg.Host),
			zap.String("dbname", cfg.DBName),
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
		)

		var db *sql.DB
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				db.SetMaxOpenConns(cfg.MaxOpenConns)
				db.SetMaxIdleConns(cfg.MaxIdleConns)
				db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
				log.Info("database connected")
				return db, nil
			}
			_ = db.Close()
		}

		log.Warn("database not ready yet", zap.Error(err), zap.Duration("retry_in", cfg.RetryDelay))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryDelay):
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", maxRetries, err)
}
