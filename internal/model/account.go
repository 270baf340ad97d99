package model

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// PrimaryDeviceID is the device id of the account's primary device.
const PrimaryDeviceID uint32 = 1

// AccountStore reads accounts and applies mutations to their latest stored snapshot.
//
// Update must call mutate with the most recent snapshot of the account and may call it
// more than once if it loses a race with a concurrent writer, so mutate must be pure.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	Update(ctx context.Context, account Account, mutate func(*Account)) (Account, error)
}

// Account holds the backup-related state of an account.
type Account struct {
	ID                    uuid.UUID
	Version               int64
	MessagesBackupRequest []byte
	MediaBackupRequest    []byte
	BackupVoucher         *Voucher
}

// BackupCredentialRequest returns the committed blinded request for the given type.
func (a Account) BackupCredentialRequest(credentialType CredentialType) ([]byte, bool) {
	var req []byte
	switch credentialType {
	case CredentialTypeMessages:
		req = a.MessagesBackupRequest
	case CredentialTypeMedia:
		req = a.MediaBackupRequest
	}
	return req, req != nil
}

// SetBackupCredentialRequests replaces both committed requests at once.
func (a *Account) SetBackupCredentialRequests(messages, media []byte) {
	a.MessagesBackupRequest = messages
	a.MediaBackupRequest = media
}

// HasActiveVoucher reports whether the account holds a voucher that expires after now.
func (a Account) HasActiveVoucher(now time.Time) bool {
	return a.BackupVoucher != nil && now.Before(a.BackupVoucher.Expiration)
}

// HasExpiredVoucher reports whether the account holds a voucher that is no longer active.
func (a Account) HasExpiredVoucher(now time.Time) bool {
	return a.BackupVoucher != nil && !a.HasActiveVoucher(now)
}

// Device identifies the authenticated device acting on an account.
type Device struct {
	ID uint32
}

// IsPrimary reports whether the device is the account's primary device.
func (d Device) IsPrimary() bool {
	return d.ID == PrimaryDeviceID
}

// CredentialType selects one of the two independent blinded backup-id slots.
type CredentialType int

const (
	// CredentialTypeMessages is the slot used for message backups.
	CredentialTypeMessages CredentialType = 1
	// CredentialTypeMedia is the slot used for media backups.
	CredentialTypeMedia CredentialType = 2
)

func (t CredentialType) String() string {
	switch t {
	case CredentialTypeMessages:
		return "messages"
	case CredentialTypeMedia:
		return "media"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseCredentialType converts a wire name into a CredentialType.
func ParseCredentialType(s string) (CredentialType, error) {
	switch s {
	case "messages", "MESSAGES":
		return CredentialTypeMessages, nil
	case "media", "MEDIA":
		return CredentialTypeMedia, nil
	default:
		return 0, NewErrInvalidArgument(fmt.Sprintf("unknown credential type %q", s))
	}
}

// BackupLevel is the entitlement tier encoded in a backup credential.
type BackupLevel int32

const (
	BackupLevelFree BackupLevel = 200
	BackupLevelPaid BackupLevel = 201
)

func (l BackupLevel) String() string {
	switch l {
	case BackupLevelFree:
		return "free"
	case BackupLevelPaid:
		return "paid"
	default:
		return fmt.Sprintf("unknown(%d)", int32(l))
	}
}

// BackupLevelFromReceiptLevel converts a numeric receipt level into a known BackupLevel.
func BackupLevelFromReceiptLevel(receiptLevel int64) (BackupLevel, error) {
	if receiptLevel > math.MaxInt32 || receiptLevel < math.MinInt32 {
		return 0, fmt.Errorf("invalid receipt level: %d", receiptLevel)
	}
	switch level := BackupLevel(receiptLevel); level {
	case BackupLevelFree, BackupLevelPaid:
		return level, nil
	default:
		return 0, fmt.Errorf("invalid receipt level: %d", receiptLevel)
	}
}
