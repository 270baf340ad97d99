package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/backup-auth-server/database"
)

// PoolOptions tunes the connection pool. Zero values keep the pgx defaults.
type PoolOptions struct {
	MaxConns        int32
	MaxConnIdleTime time.Duration
}

func (o PoolOptions) apply(conf *pgxpool.Config) {
	if o.MaxConns > 0 {
		conf.MaxConns = o.MaxConns
	}
	if o.MaxConnIdleTime > 0 {
		conf.MaxConnIdleTime = o.MaxConnIdleTime
	}
}

type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens a pool, checks connectivity and applies pending migrations.
func NewConnection(ctx context.Context, dsn string, opts PoolOptions) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	opts.apply(conf)

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{Pool: pool}, nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

// Ping satisfies the admin health check.
func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
