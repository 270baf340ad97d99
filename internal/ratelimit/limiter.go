package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// Config describes a leaky bucket: BucketSize permits, one regenerated every PermitRegenerationDuration.
type Config struct {
	BucketSize                 int
	PermitRegenerationDuration time.Duration
}

// Bucket is the persisted state of one key's permits.
type Bucket struct {
	Permits    float64
	LastUpdate time.Time
}

// BucketStore persists buckets. Modify must run fn atomically with respect to other
// Modify calls for the same descriptor and key, and must not persist anything when fn fails.
type BucketStore interface {
	Get(ctx context.Context, descriptor, key string) (Bucket, bool, error)
	Modify(ctx context.Context, descriptor, key string, fn func(b Bucket, found bool) (Bucket, error)) error
}

var _ model.RateLimiter = (*Limiter)(nil)

// Limiter enforces one descriptor's Config over a BucketStore.
type Limiter struct {
	descriptor string
	config     Config
	store      BucketStore
	now        func() time.Time
}

// NewLimiter creates a Limiter.
func NewLimiter(descriptor string, config Config, store BucketStore) (*Limiter, error) {
	if config.BucketSize <= 0 {
		return nil, fmt.Errorf("bucket size for %s must be positive", descriptor)
	}
	if config.PermitRegenerationDuration <= 0 {
		return nil, fmt.Errorf("permit regeneration duration for %s must be positive", descriptor)
	}
	return &Limiter{descriptor: descriptor, config: config, store: store, now: time.Now}, nil
}

// Descriptor returns the limiter's descriptor.
func (l *Limiter) Descriptor() string {
	return l.descriptor
}

// Validate consumes a permit for key.
func (l *Limiter) Validate(ctx context.Context, key string) error {
	var limited *model.Error
	err := l.store.Modify(ctx, l.descriptor, key, func(b Bucket, found bool) (Bucket, error) {
		now := l.now()
		b = l.refill(b, found, now)
		if b.Permits < 1 {
			limited = model.NewErrRateLimitExceeded(l.timeUntilPermit(b))
			return b, limited
		}
		b.Permits--
		return b, nil
	})
	if limited != nil && errors.Is(err, limited) {
		return limited
	}
	if err != nil {
		return fmt.Errorf("failed to update rate limit bucket: %w", err)
	}
	return nil
}

// HasAvailablePermits reports whether n permits are available for key without consuming them.
func (l *Limiter) HasAvailablePermits(ctx context.Context, key string, n int) (bool, error) {
	b, found, err := l.store.Get(ctx, l.descriptor, key)
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit bucket: %w", err)
	}
	return l.refill(b, found, l.now()).Permits >= float64(n), nil
}

// PermitRegenerationDuration returns the configured time to regain one permit.
func (l *Limiter) PermitRegenerationDuration() time.Duration {
	return l.config.PermitRegenerationDuration
}

func (l *Limiter) refill(b Bucket, found bool, now time.Time) Bucket {
	size := float64(l.config.BucketSize)
	if !found {
		return Bucket{Permits: size, LastUpdate: now}
	}
	elapsed := now.Sub(b.LastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	regenerated := float64(elapsed) / float64(l.config.PermitRegenerationDuration)
	return Bucket{Permits: math.Min(size, b.Permits+regenerated), LastUpdate: now}
}

func (l *Limiter) timeUntilPermit(b Bucket) time.Duration {
	missing := 1 - b.Permits
	return time.Duration(math.Ceil(missing * float64(l.config.PermitRegenerationDuration)))
}

// Limiters is a set of limiters keyed by descriptor.
type Limiters struct {
	limiters map[string]model.RateLimiter
}

var _ model.RateLimiters = (*Limiters)(nil)

// NewLimiters creates limiters for every descriptor in configs, all sharing store.
func NewLimiters(configs map[string]Config, store BucketStore) (*Limiters, error) {
	limiters := make(map[string]model.RateLimiter, len(configs))
	for descriptor, cfg := range configs {
		l, err := NewLimiter(descriptor, cfg, store)
		if err != nil {
			return nil, err
		}
		limiters[descriptor] = l
	}
	return &Limiters{limiters: limiters}, nil
}

// ForDescriptor returns the limiter for descriptor. It panics on an unconfigured
// descriptor, which is a wiring bug.
func (l *Limiters) ForDescriptor(descriptor string) model.RateLimiter {
	limiter, ok := l.limiters[descriptor]
	if !ok {
		panic(fmt.Sprintf("no rate limiter configured for %q", descriptor))
	}
	return limiter
}
