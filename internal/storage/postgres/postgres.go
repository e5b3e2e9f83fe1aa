// Package postgres persists battle reports in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// ErrSchemaMissing is returned by Ready when the report table has not been migrated.
var ErrSchemaMissing = errors.New("battle_reports table missing; run cmd/migrate")

// applicationName tags every connection in pg_stat_activity.
const applicationName = "skirmish"

// Pool owns the pgx connection pool shared by report repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to PostgreSQL using cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Ready checks within timeout that the database answers and the report
// schema exists.
//
// Postcondition: Returns ErrSchemaMissing if migrations have not been applied.
func (p *Pool) Ready(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var table *string
	if err := p.pool.QueryRow(ctx, `SELECT to_regclass('battle_reports')::text`).Scan(&table); err != nil {
		return fmt.Errorf("checking report schema: %w", err)
	}
	if table == nil {
		return ErrSchemaMissing
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for use by repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
