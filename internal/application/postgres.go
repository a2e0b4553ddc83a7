// Package application wires shared process-level infrastructure.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shortbread.app/shortbread/internal/config"
)

var (
	dbOpenBackoffBase  = 1 * time.Second
	dbOpenBackoffScale = 1.618
)

// OpenDBPoolWithRetry initializes a new PostgreSQL connection pool,
// retrying both the open and the first ping with golden-ratio backoff.
func OpenDBPoolWithRetry(ctx context.Context, conf config.Config) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(conf.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	retries := conf.DatabaseRetries
	if retries <= 0 {
		retries = 10
	}

	slog.Info("Connecting to database", "host", cfg.ConnConfig.Host)

	var lastErr error
	for i := 0; i < retries; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				slog.Info("Connected to database", "host", cfg.ConnConfig.Host)
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		backoff := time.Duration(float64(dbOpenBackoffBase) * math.Pow(dbOpenBackoffScale, float64(i)))
		slog.Warn("database not ready, retrying", "attempt", i+1, "backoff", backoff, "error", err)
		time.Sleep(backoff)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", retries, lastErr)
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts", retries)
}
