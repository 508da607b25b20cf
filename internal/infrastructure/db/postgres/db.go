// Package postgres implements the repository ports on PostgreSQL through
// database/sql and lib/pq. All SQL is explicit; the schema lives in the
// embedded migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout       = 5 * time.Second
	defaultSlowThreshold = 200 * time.Millisecond
	maxLoggedQuery       = 500
)

// Config holds the connection and pool settings.
type Config struct {
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Timeout bounds every repository call. Defaults to 5s.
	Timeout time.Duration
	// SlowQuery logs statements slower than this at warn level.
	SlowQuery time.Duration
}

// DB wraps *sql.DB with per-statement logging and timeouts.
type DB struct {
	sqldb   *sql.DB
	log     zerolog.Logger
	timeout time.Duration
	slow    time.Duration
}

// Open opens the pool described by cfg and verifies connectivity with Ping.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: URL must not be empty")
	}
	sqldb, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	d := &DB{sqldb: sqldb, log: log, timeout: cfg.Timeout, slow: cfg.SlowQuery}
	if d.timeout <= 0 {
		d.timeout = defaultTimeout
	}
	if d.slow <= 0 {
		d.slow = defaultSlowThreshold
	}

	pingCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return d, nil
}

// Raw exposes the pool for migrations.
func (d *DB) Raw() *sql.DB { return d.sqldb }

func (d *DB) Close() error { return d.sqldb.Close() }

// Ping matches the readiness probe signature.
func (d *DB) Ping(ctx context.Context) error { return d.sqldb.PingContext(ctx) }

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	d.observe(query, time.Since(start), err)
	return res, err
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.sqldb.QueryContext(ctx, query, args...)
	d.observe(query, time.Since(start), err)
	return rows, err
}

func (d *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.sqldb.QueryRowContext(ctx, query, args...)
	d.observe(query, time.Since(start), row.Err())
	return row
}

// observe logs one statement: errors at error level, slow statements at warn,
// everything else at debug.
func (d *DB) observe(query string, dur time.Duration, err error) {
	if len(query) > maxLoggedQuery {
		query = query[:maxLoggedQuery] + "…"
	}
	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		d.log.Error().Err(err).Str("query", query).Dur("duration", dur).Msg("postgres query error")
	case dur > d.slow:
		d.log.Warn().Str("query", query).Dur("duration", dur).Msg("postgres slow query")
	default:
		d.log.Debug().Str("query", query).Dur("duration", dur).Msg("postgres query")
	}
}

// isUniqueViolation reports whether err is a lib/pq unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// dateOnly normalises a DATE column to UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
