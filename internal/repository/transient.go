package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransientRepository is a short-lived key-value store with per-key
// expiry. It backs the parent-ID stash consulted when a delivery fires
// for an entity that was deleted before the delivery ran. Rows live in
// the database rather than process memory so a stash written before a
// restart is still there when the queued delivery finally runs.
type TransientRepository struct {
	pool *pgxpool.Pool
}

// NewTransientRepository creates a new TransientRepository.
func NewTransientRepository(pool *pgxpool.Pool) *TransientRepository {
	return &TransientRepository{pool: pool}
}

// Set stores a value under a key with the given TTL, replacing any
// existing entry.
func (r *TransientRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	query, args, err := psql.
		Insert("transients").
		Columns("key", "value", "expires_at").
		Values(key, value, time.Now().Add(ttl)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Set query for transient: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set transient: %w", err)
	}

	return nil
}

// Get returns the value stored under a key, or ok=false when the key is
// absent or expired.
func (r *TransientRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := psql.
		Select("value").
		From("transients").
		Where(sq.Eq{"key": key}).
		Where(sq.Gt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build Get query for transient: %w", err)
	}

	var value string
	err = r.pool.QueryRow(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get transient: %w", err)
	}

	return value, true, nil
}

// Delete removes a key.
func (r *TransientRepository) Delete(ctx context.Context, key string) error {
	query, args, err := psql.
		Delete("transients").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for transient: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete transient: %w", err)
	}

	return nil
}

// PurgeExpired removes all expired entries and returns how many were
// removed.
func (r *TransientRepository) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := psql.
		Delete("transients").
		Where(sq.LtOrEq{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build PurgeExpired query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge expired transients: %w", err)
	}

	return tag.RowsAffected(), nil
}
