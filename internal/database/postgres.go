package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "assets"

// PostgresKVStore provides simple kv store interface based on a postgres table.
type PostgresKVStore struct {
	pool    *pgxpool.Pool
	table   string
	timeout time.Duration
}

// NewPostgresKVStore connects to the database and creates the kv table if needed.
func NewPostgresKVStore(ctx context.Context, dsn string, table string) (*PostgresKVStore, error) {
	if table == "" {
		table = defaultPostgresTable
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresKVStore{
		pool:    pool,
		table:   pgx.Identifier{table}.Sanitize(),
		timeout: 10 * time.Second,
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresKVStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			key TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}

	return nil
}

// ReadKey returns data saved for given key. Returns nil if there's no data stored.
func (s *PostgresKVStore) ReadKey(key []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM `+s.table+` WHERE key = $1`, string(key)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading from db: %w", err)
	}
	if data == nil {
		data = []byte{}
	}

	return data, nil
}

// UpdateKey stores given data under given key.
func (s *PostgresKVStore) UpdateKey(key []byte, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if data == nil {
		data = []byte{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.table+` (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key)
		DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at;
	`, string(key), data)
	if err != nil {
		return fmt.Errorf("writing to db: %w", err)
	}

	return nil
}

// Close closes connection pool.
func (s *PostgresKVStore) Close() error {
	s.pool.Close()
	return nil
}
