package model

import (
	"fmt"
	"time"
)

// MaxRedemptionDuration bounds how far into the future credentials may be requested.
const MaxRedemptionDuration = 7 * Day

// Credential is an issued backup credential and the day on which it may be redeemed.
type Credential struct {
	Credential     []byte
	RedemptionTime time.Time
}

// RotationLimit describes whether the backup-id may currently be rotated.
type RotationLimit struct {
	HasPermitsRemaining bool
	NextPermitAvailable time.Duration
}

// RedemptionRange is an inclusive, ordered range of day-aligned redemption times.
type RedemptionRange struct {
	start time.Time
	end   time.Time
}

// NewRedemptionRange validates an inclusive range of redemption days relative to now.
//
// Both ends must be day aligned, start must not be after end, start may be at most one
// day in the past and end at most MaxRedemptionDuration in the future.
func NewRedemptionRange(now, start, end time.Time) (RedemptionRange, error) {
	start, end = start.UTC(), end.UTC()
	if start.After(end) {
		return RedemptionRange{}, NewErrInvalidArgument("end of redemption range must be after the start")
	}
	if !IsDayAligned(start) || !IsDayAligned(end) {
		return RedemptionRange{}, NewErrInvalidArgument("redemption range must be day aligned")
	}
	today := TruncateToDay(now)
	if start.Before(today.Add(-Day)) {
		return RedemptionRange{}, NewErrInvalidArgument("redemption range start is too far in the past")
	}
	if end.After(today.Add(MaxRedemptionDuration)) {
		return RedemptionRange{}, NewErrInvalidArgument(
			fmt.Sprintf("redemption range end may be at most %d days in the future", int(MaxRedemptionDuration/Day)))
	}
	return RedemptionRange{start: start, end: end}, nil
}

// Start returns the first day of the range.
func (r RedemptionRange) Start() time.Time { return r.start }

// End returns the last day of the range.
func (r RedemptionRange) End() time.Time { return r.end }

// Days returns every day in the range, in order.
func (r RedemptionRange) Days() []time.Time {
	// only the zero value matches; NewRedemptionRange never builds one
	if r.start.IsZero() && r.end.IsZero() {
		return nil
	}
	days := make([]time.Time, 0, int(r.end.Sub(r.start)/Day)+1)
	for d := r.start; !d.After(r.end); d = d.Add(Day) {
		days = append(days, d)
	}
	return days
}
