package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStoreImpl struct {
	pool *pgxpool.Pool
}

// NewPostgresStore 使用 kv_store 資料表，schema 由 database.EnsureSchema 建立
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &PostgresStoreImpl{
		pool: pool,
	}
}

func (s *PostgresStoreImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return value, true, nil
}

func (s *PostgresStoreImpl) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, key, value)
	return err
}

func (s *PostgresStoreImpl) Remove(ctx context.Context, key string) error {
	query := `
		DELETE FROM kv_store
		WHERE key = $1
	`

	_, err := s.pool.Exec(ctx, query, key)
	return err
}
