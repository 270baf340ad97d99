package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/backup-auth-server/internal/ratelimit"
)

var _ ratelimit.BucketStore = (*BucketRepository)(nil)

// BucketRepository persists rate limiter buckets.
type BucketRepository struct {
	db *Connection
}

func NewBucketRepository(db *Connection) *BucketRepository {
	return &BucketRepository{db: db}
}

func (r *BucketRepository) Get(ctx context.Context, descriptor, key string) (ratelimit.Bucket, bool, error) {
	const query = `
        SELECT permits, last_update FROM rate_limit_buckets
        WHERE descriptor = $1 AND key = $2
    `
	var b ratelimit.Bucket
	err := r.db.QueryRow(ctx, query, descriptor, key).Scan(&b.Permits, &b.LastUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ratelimit.Bucket{}, false, nil
		}
		return ratelimit.Bucket{}, false, fmt.Errorf("failed to get rate limit bucket: %w", err)
	}
	return b, true, nil
}

// Modify runs fn while holding a transaction-scoped advisory lock on the bucket, so
// callers racing on a bucket that does not exist yet still serialize.
func (r *BucketRepository) Modify(
	ctx context.Context,
	descriptor, key string,
	fn func(b ratelimit.Bucket, found bool) (ratelimit.Bucket, error),
) error {
	const (
		advisoryLockQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
		lockQuery         = `
            SELECT permits, last_update FROM rate_limit_buckets
            WHERE descriptor = $1 AND key = $2
            FOR UPDATE
        `
		upsertQuery = `
            INSERT INTO rate_limit_buckets (descriptor, key, permits, last_update)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (descriptor, key)
            DO UPDATE SET permits = EXCLUDED.permits, last_update = EXCLUDED.last_update
        `
	)

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, advisoryLockQuery, descriptor+"/"+key); err != nil {
			return fmt.Errorf("failed to lock rate limit key: %w", err)
		}

		var (
			current ratelimit.Bucket
			found   = true
		)
		err := tx.QueryRow(ctx, lockQuery, descriptor, key).Scan(&current.Permits, &current.LastUpdate)
		if errors.Is(err, pgx.ErrNoRows) {
			found = false
		} else if err != nil {
			return fmt.Errorf("failed to lock rate limit bucket: %w", err)
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, upsertQuery, descriptor, key, next.Permits, next.LastUpdate.UTC()); err != nil {
			return fmt.Errorf("failed to store rate limit bucket: %w", err)
		}
		return nil
	})
}

// DeleteIdle removes buckets untouched since cutoff. A missing bucket is treated as full.
func (r *BucketRepository) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM rate_limit_buckets WHERE last_update < $1`
	tag, err := r.db.Exec(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle rate limit buckets: %w", err)
	}
	return tag.RowsAffected(), nil
}
