package model

import "time"

// Day is the granularity of credential issuance and voucher expiration.
const Day = 24 * time.Hour

// TruncateToDay returns t truncated to midnight UTC.
func TruncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(Day)
}

// IsDayAligned reports whether t falls exactly on midnight UTC.
func IsDayAligned(t time.Time) bool {
	return TruncateToDay(t).Equal(t)
}

// Voucher records a paid entitlement derived from a redeemed receipt.
type Voucher struct {
	Level      BackupLevel
	Expiration time.Time
}

// NewVoucher creates a voucher with its expiration aligned to the day boundary.
func NewVoucher(level BackupLevel, expiration time.Time) Voucher {
	return Voucher{Level: level, Expiration: TruncateToDay(expiration)}
}

// MergeVoucher combines the voucher already on an account with a newly granted one.
//
// A level change always takes the incoming voucher. With equal levels the later
// expiration wins; shortened reports that the existing voucher outlived the incoming one,
// which only happens on receipt reuse or a reduced validity period.
func MergeVoucher(existing *Voucher, incoming Voucher) (merged Voucher, shortened bool) {
	incoming = NewVoucher(incoming.Level, incoming.Expiration)
	if existing == nil {
		return incoming, false
	}
	if existing.Level != incoming.Level {
		return incoming, false
	}
	if existing.Expiration.After(incoming.Expiration) {
		return *existing, true
	}
	return incoming, false
}
