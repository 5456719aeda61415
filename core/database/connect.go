package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/m3rciful/nftbot/core/logger"
)

const (
	// readyTimeout covers a database container that is still starting.
	readyTimeout = 30 * time.Second
	readyPoll    = 2 * time.Second
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// Connect opens the pool and waits until the server answers a ping.
// The pool is sized to cfg.MaxConnections for both open and idle conns.
func Connect(cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	start := time.Now()
	attempts, err := waitReady(ctx, db, readyPoll)
	attrs := []slog.Attr{
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("attempts", attempts),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	}
	if err != nil {
		_ = db.Close()
		logger.Error(ctx, "db", "db.connect", append(attrs,
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)...)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)
	logger.Info(ctx, "db", "db.connect", append(attrs,
		slog.String("status", "ok"),
		slog.Int("pool_open", cfg.MaxConnections),
	)...)
	return db, nil
}

// waitReady pings every poll until the database answers or ctx ends.
// It returns the number of pings made.
func waitReady(ctx context.Context, db pinger, poll time.Duration) (int, error) {
	attempts := 0
	for {
		attempts++
		err := db.PingContext(ctx)
		if err == nil {
			return attempts, nil
		}
		logger.Debug(ctx, "db", "db.ping",
			slog.String("status", "retry"),
			slog.Int("attempts", attempts),
			slog.String("err", err.Error()),
		)
		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempts, fmt.Errorf("database not ready: %w", err)
		case <-timer.C:
		}
	}
}
