package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedemptionRange(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	today := TruncateToDay(now)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		wantDays int
		wantErr  bool
	}{
		{name: "single day", start: today, end: today, wantDays: 1},
		{name: "yesterday through max", start: today.Add(-Day), end: today.Add(MaxRedemptionDuration), wantDays: 9},
		{name: "start after end", start: today.Add(Day), end: today, wantErr: true},
		{name: "unaligned start", start: today.Add(time.Hour), end: today.Add(Day), wantErr: true},
		{name: "unaligned end", start: today, end: today.Add(Day + time.Second), wantErr: true},
		{name: "too far in the past", start: today.Add(-2 * Day), end: today, wantErr: true},
		{name: "too far in the future", start: today, end: today.Add(MaxRedemptionDuration + Day), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr, err := NewRedemptionRange(now, tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)

			days := rr.Days()
			require.Len(t, days, tt.wantDays)
			assert.Equal(t, tt.start, days[0])
			assert.Equal(t, tt.end, days[len(days)-1])
			for i := 1; i < len(days); i++ {
				assert.Equal(t, Day, days[i].Sub(days[i-1]))
			}
		})
	}
}

func TestRedemptionRange_ZeroValue(t *testing.T) {
	t.Parallel()
	assert.Empty(t, RedemptionRange{}.Days())
}

func TestRedemptionRange_EpochIsNotZero(t *testing.T) {
	t.Parallel()
	epoch := time.Unix(0, 0).UTC()
	assert.Equal(t, []time.Time{epoch}, RedemptionRange{start: epoch, end: epoch}.Days())
}
