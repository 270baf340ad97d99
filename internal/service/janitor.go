package service

import (
	"context"
	"time"

	"github.com/dtroode/backup-auth-server/internal/logger"
)

// Pruner deletes rows that are no longer needed as of cutoff.
type Pruner interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdlePruner deletes rate limit buckets untouched since cutoff.
type IdlePruner interface {
	DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor periodically removes expired receipts and idle rate limit buckets.
//
// A bucket idle for bucketIdleAfter has refilled completely, and a missing bucket is
// treated as full, so deleting it does not change any limiter decision.
type Janitor struct {
	receipts        Pruner
	buckets         IdlePruner
	bucketIdleAfter time.Duration
	logger          *logger.Logger
	clock           func() time.Time
}

func NewJanitor(receipts Pruner, buckets IdlePruner, bucketIdleAfter time.Duration, logger *logger.Logger) *Janitor {
	return &Janitor{
		receipts:        receipts,
		buckets:         buckets,
		bucketIdleAfter: bucketIdleAfter,
		logger:          logger,
		clock:           time.Now,
	}
}

// Run sweeps every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs a single cleanup pass. Failures are logged and retried on the next pass.
func (j *Janitor) Sweep(ctx context.Context) {
	now := j.clock()

	receipts, err := j.receipts.DeleteExpired(ctx, now)
	if err != nil {
		j.logger.Error("Janitor service: failed to prune receipts",
			"error", err.Error())
	}

	buckets, err := j.buckets.DeleteIdle(ctx, now.Add(-j.bucketIdleAfter))
	if err != nil {
		j.logger.Error("Janitor service: failed to prune rate limit buckets",
			"error", err.Error())
	}

	if receipts > 0 || buckets > 0 {
		j.logger.Info("Janitor service: sweep finished",
			"receipts_deleted", receipts,
			"buckets_deleted", buckets)
	}
}
