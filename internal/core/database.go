// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/tournament-backend/internal/config"
)

const pingTimeout = 5 * time.Second

// DBTX is the slice of sqlx the repositories use. *sqlx.DB and *sqlx.Tx
// both satisfy it.
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Database owns the Postgres pool for the life of the process. Repositories
// receive Pool(); nothing else opens connections except the migrator.
type Database struct {
	pool *sqlx.DB
	dsn  string
}

func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	pool, err := sqlx.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(spreadLifetime(cfg.ConnMaxLifetime))
	pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := boundedPing(ctx, pool.PingContext); err != nil {
		_ = pool.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("reach database: %w", err)
	}

	return &Database{pool: pool, dsn: cfg.URL}, nil
}

func (d *Database) Pool() DBTX {
	return d.pool
}

func (d *Database) Ping(ctx context.Context) error {
	if err := boundedPing(ctx, d.pool.PingContext); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.pool.Stats()
}

func (d *Database) Close() error {
	return d.pool.Close()
}

// spreadLifetime adds up to an eighth of base so pooled connections opened
// together do not all expire together.
func spreadLifetime(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	//nolint:gosec // G404: jitter only
	return base + rand.N(base/8+1)
}

func boundedPing(ctx context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return ping(ctx)
}
