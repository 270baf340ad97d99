package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/backup-auth-server/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, size int, regen time.Duration) (*Limiter, *fakeClock) {
	t.Helper()
	l, err := NewLimiter("test", Config{BucketSize: size, PermitRegenerationDuration: regen}, NewMemoryStore())
	require.NoError(t, err)
	clk := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clk.Now
	return l, clk
}

func TestLimiter_Validate(t *testing.T) {
	ctx := context.Background()
	l, clk := newTestLimiter(t, 2, time.Hour)

	require.NoError(t, l.Validate(ctx, "a"))
	require.NoError(t, l.Validate(ctx, "a"))

	err := l.Validate(ctx, "a")
	require.ErrorIs(t, err, model.ErrRateLimitExceeded)
	var limited *model.Error
	require.True(t, errors.As(err, &limited))
	assert.Equal(t, time.Hour, limited.RetryAfter)

	// other keys are independent
	require.NoError(t, l.Validate(ctx, "b"))

	clk.Advance(30 * time.Minute)
	err = l.Validate(ctx, "a")
	require.True(t, errors.As(err, &limited))
	assert.Equal(t, 30*time.Minute, limited.RetryAfter)

	clk.Advance(30 * time.Minute)
	assert.NoError(t, l.Validate(ctx, "a"))
}

func TestLimiter_HasAvailablePermits(t *testing.T) {
	ctx := context.Background()
	l, clk := newTestLimiter(t, 1, 24*time.Hour)

	ok, err := l.HasAvailablePermits(ctx, "a", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.HasAvailablePermits(ctx, "a", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Validate(ctx, "a"))

	ok, err = l.HasAvailablePermits(ctx, "a", 1)
	require.NoError(t, err)
	assert.False(t, ok, "checking availability must not consume or grant permits")

	clk.Advance(24 * time.Hour)
	ok, err = l.HasAvailablePermits(ctx, "a", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_RefillCapsAtBucketSize(t *testing.T) {
	ctx := context.Background()
	l, clk := newTestLimiter(t, 2, time.Minute)

	require.NoError(t, l.Validate(ctx, "a"))
	clk.Advance(time.Hour)
	require.NoError(t, l.Validate(ctx, "a"))
	require.NoError(t, l.Validate(ctx, "a"))
	assert.ErrorIs(t, l.Validate(ctx, "a"), model.ErrRateLimitExceeded)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string, string) (Bucket, bool, error) {
	return Bucket{}, false, f.err
}

func (f failingStore) Modify(context.Context, string, string, func(Bucket, bool) (Bucket, error)) error {
	return f.err
}

func TestLimiter_StoreErrors(t *testing.T) {
	l, err := NewLimiter("test", Config{BucketSize: 1, PermitRegenerationDuration: time.Second}, failingStore{err: errors.New("db down")})
	require.NoError(t, err)

	err = l.Validate(context.Background(), "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrRateLimitExceeded)
	assert.Contains(t, err.Error(), "db down")

	_, err = l.HasAvailablePermits(context.Background(), "a", 1)
	assert.Error(t, err)
}

func TestNewLimiters(t *testing.T) {
	limiters, err := NewLimiters(map[string]Config{
		model.RateLimitSetBackupID: {BucketSize: 1, PermitRegenerationDuration: time.Hour},
	}, NewMemoryStore())
	require.NoError(t, err)

	assert.Equal(t, time.Hour, limiters.ForDescriptor(model.RateLimitSetBackupID).PermitRegenerationDuration())
	assert.Panics(t, func() { limiters.ForDescriptor("missing") })

	_, err = NewLimiters(map[string]Config{"bad": {}}, NewMemoryStore())
	assert.Error(t, err)
}
