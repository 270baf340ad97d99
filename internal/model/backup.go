package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Rate limiter descriptors used by the backup services.
const (
	RateLimitSetBackupID          = "set-backup-id"
	RateLimitSetPaidMediaBackupID = "set-paid-media-backup-id"
)

// BackupMediaExperiment is the experiment that grants the paid level by default.
const BackupMediaExperiment = "backupMedia"

// RateLimiter enforces a per-key permit budget.
type RateLimiter interface {
	// Validate consumes one permit for key or fails with a RateLimitExceeded error.
	Validate(ctx context.Context, key string) error
	// HasAvailablePermits reports whether at least n permits are available without consuming them.
	HasAvailablePermits(ctx context.Context, key string, n int) (bool, error)
	// PermitRegenerationDuration is the fixed time it takes to regain a single permit.
	PermitRegenerationDuration() time.Duration
}

// RateLimiters resolves limiters by descriptor.
type RateLimiters interface {
	ForDescriptor(descriptor string) RateLimiter
}

// RedemptionLedger records redeemed receipt serials.
type RedemptionLedger interface {
	// Put claims serial for accountID and returns false if it was already claimed.
	Put(ctx context.Context, serial []byte, expirationEpochSeconds int64, receiptLevel int64, accountID uuid.UUID) (bool, error)
}

// ExperimentEnroller decides experiment membership.
type ExperimentEnroller interface {
	IsEnrolled(accountID uuid.UUID, experimentName string) bool
}

// BlindedRequest is a deserialized blinded backup-id commitment.
type BlindedRequest interface {
	Serialize() []byte
}

// CredentialIssuer is the credential math used to issue backup credentials.
type CredentialIssuer interface {
	ParseRequest(serialized []byte) (BlindedRequest, error)
	IssueCredential(req BlindedRequest, redemptionTime time.Time, level BackupLevel, credentialType CredentialType) ([]byte, error)
}

// ReceiptPresentation is a verified proof of payment.
type ReceiptPresentation struct {
	Serial                 []byte
	ExpirationEpochSeconds int64
	ReceiptLevel           int64
}

// ReceiptVerifier checks receipt presentations.
type ReceiptVerifier interface {
	// VerifyPresentation returns the decoded presentation or a VerificationFailed error.
	VerifyPresentation(presentation []byte) (ReceiptPresentation, error)
}
