package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/persistence"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/database"
)

type kvRepositoryImpl struct {
	db *database.DB
}

// NewKVRepository creates the planner_kv table if needed.
func NewKVRepository(ctx context.Context, db *database.DB) (persistence.Repository, error) {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS planner_kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("migrate planner_kv table: %w", err)
	}
	return &kvRepositoryImpl{db: db}, nil
}

const upsertQuery = `
	INSERT INTO planner_kv (k, v) VALUES ($1, $2)
	ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = NOW()`

// Get implements persistence.Repository.
func (r *kvRepositoryImpl) Get(ctx context.Context, key string) (string, error) {
	q := GetQuerier(ctx, r.db)
	var value string
	err := q.QueryRow(ctx, `SELECT v FROM planner_kv WHERE k = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", persistence.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set implements persistence.Repository.
func (r *kvRepositoryImpl) Set(ctx context.Context, key string, value string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// SetMany implements persistence.Repository.
func (r *kvRepositoryImpl) SetMany(ctx context.Context, entries map[string]string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for key, value := range entries {
			if err := r.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete implements persistence.Repository.
func (r *kvRepositoryImpl) Delete(ctx context.Context, key string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM planner_kv WHERE k = $1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
