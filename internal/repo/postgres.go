package repo

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of pgxpool.Pool the store uses; tests substitute a
// pgxmock pool.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore provides typed access to the Postgres database.
type PostgresStore struct {
	pool   PgxPool
	closer func()
	logger *slog.Logger
	schema string
}

// NewPostgres opens a new connection pool with the desired search_path.
func NewPostgres(ctx context.Context, databaseURL, schema string, logger *slog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.ConnConfig.RuntimeParams == nil {
		cfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	if schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = schema
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	s := NewPostgresWithPool(pool, logger)
	s.closer = pool.Close
	s.schema = schema

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return s, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool PgxPool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With("component", "repo"),
	}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// Ping ensures the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	row := s.pool.QueryRow(ctx, "SELECT 1")
	var one int
	return row.Scan(&one)
}

// RunMigrations applies embedded schema migrations in lexicographical order.
func (s *PostgresStore) RunMigrations(ctx context.Context, filesystem fs.FS) error {
	sub, err := fs.Sub(filesystem, "postgres")
	if err != nil {
		return fmt.Errorf("postgres migrations dir: %w", err)
	}
	return applyMigrations(ctx, s.pool, sub)
}

func applyMigrations(ctx context.Context, pool PgxPool, filesystem fs.FS) error {
	names, err := migrationFiles(filesystem)
	if err != nil {
		return err
	}

	for _, name := range names {
		sqlBytes, err := fs.ReadFile(filesystem, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(sqlBytes) == 0 {
			continue
		}
		if err := execInTx(ctx, pool, string(sqlBytes)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
	}
	return nil
}

func execInTx(ctx context.Context, pool PgxPool, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, sql); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
