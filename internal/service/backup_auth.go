package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/metrics"
	"github.com/dtroode/backup-auth-server/internal/model"
)

// maxVoucherClearAttempts bounds how often GetBackupAuthCredentials re-reads an account
// whose voucher it is trying to clear.
const maxVoucherClearAttempts = 3

// BackupAuth issues backup credentials for authenticated accounts.
//
// Accounts first commit blinded backup-ids with CommitBackupID. Later they may request
// one credential per day with GetBackupAuthCredentials and present those anonymously.
// Paid access is granted by redeeming payment receipts, which extend the account's voucher.
type BackupAuth struct {
	accounts    model.AccountStore
	limiters    model.RateLimiters
	ledger      model.RedemptionLedger
	experiments model.ExperimentEnroller
	issuer      model.CredentialIssuer
	receipts    model.ReceiptVerifier
	metrics     *metrics.Metrics
	logger      *logger.Logger
	clock       func() time.Time
}

func NewBackupAuth(
	accounts model.AccountStore,
	limiters model.RateLimiters,
	ledger model.RedemptionLedger,
	experiments model.ExperimentEnroller,
	issuer model.CredentialIssuer,
	receipts model.ReceiptVerifier,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *BackupAuth {
	return &BackupAuth{
		accounts:    accounts,
		limiters:    limiters,
		ledger:      ledger,
		experiments: experiments,
		issuer:      issuer,
		receipts:    receipts,
		metrics:     metrics,
		logger:      logger,
		clock:       time.Now,
	}
}

// CommitBackupID stores blinded backup-id requests for later credential issuance.
//
// A nil request leaves the stored value for that credential type untouched. Committing
// the values that are already stored is a no-op that consumes no rate limit permits.
func (s *BackupAuth) CommitBackupID(
	ctx context.Context,
	account model.Account,
	device model.Device,
	messagesRequest []byte,
	mediaRequest []byte,
) error {
	if !device.IsPrimary() {
		s.metrics.RecordBackupIDCommit("rejected")
		return model.NewErrPermissionDenied("only primary device can set backup-id")
	}
	if messagesRequest == nil && mediaRequest == nil {
		s.metrics.RecordBackupIDCommit("rejected")
		return model.NewErrInvalidArgument("must set at least one of message/media credential requests")
	}
	for _, req := range [][]byte{messagesRequest, mediaRequest} {
		if req == nil {
			continue
		}
		if _, err := s.issuer.ParseRequest(req); err != nil {
			s.metrics.RecordBackupIDCommit("rejected")
			return model.NewErrInvalidArgument("invalid backup credential request")
		}
	}

	storedMessages, _ := account.BackupCredentialRequest(model.CredentialTypeMessages)
	storedMedia, _ := account.BackupCredentialRequest(model.CredentialTypeMedia)

	targetMessages := storedMessages
	if messagesRequest != nil {
		targetMessages = messagesRequest
	}
	targetMedia := storedMedia
	if mediaRequest != nil {
		targetMedia = mediaRequest
	}

	requiresMessagesRotation := !equalRequests(targetMessages, storedMessages)
	requiresMediaRotation := !equalRequests(targetMedia, storedMedia)

	if !requiresMessagesRotation && !requiresMediaRotation {
		s.logger.Debug("BackupAuth service: backup-id already committed",
			"account_id", account.ID)
		s.metrics.RecordBackupIDCommit("unchanged")
		return nil
	}

	var descriptors []string
	if requiresMessagesRotation {
		descriptors = append(descriptors, model.RateLimitSetBackupID)
	}
	if requiresMediaRotation && account.HasActiveVoucher(s.clock()) {
		descriptors = append(descriptors, model.RateLimitSetPaidMediaBackupID)
	}
	for _, descriptor := range descriptors {
		if err := s.limiters.ForDescriptor(descriptor).Validate(ctx, account.ID.String()); err != nil {
			return s.rateLimitFailure(account, descriptor, err)
		}
	}

	_, err := s.accounts.Update(ctx, account, func(a *model.Account) {
		a.SetBackupCredentialRequests(targetMessages, targetMedia)
	})
	if err != nil {
		s.logger.Error("BackupAuth service: failed to store backup-id",
			"account_id", account.ID,
			"error", err.Error())
		return fmt.Errorf("failed to store backup credential requests: %w", err)
	}

	s.logger.Info("BackupAuth service: backup-id committed",
		"account_id", account.ID,
		"messages_rotated", requiresMessagesRotation,
		"media_rotated", requiresMediaRotation)
	s.metrics.RecordBackupIDCommit("updated")

	return nil
}

func (s *BackupAuth) rateLimitFailure(account model.Account, descriptor string, err error) error {
	if errors.Is(err, model.ErrRateLimitExceeded) {
		s.logger.Info("BackupAuth service: backup-id rotation rate limited",
			"account_id", account.ID,
			"descriptor", descriptor)
		s.metrics.RecordRateLimited(descriptor)
		s.metrics.RecordBackupIDCommit("rate_limited")
		return err
	}
	s.logger.Error("BackupAuth service: rate limiter failed",
		"account_id", account.ID,
		"descriptor", descriptor,
		"error", err.Error())
	return fmt.Errorf("failed to check %s rate limit: %w", descriptor, err)
}

// CheckBackupIDRotationLimit reports whether CommitBackupID could currently rotate the
// account's backup-ids. NextPermitAvailable is an upper bound, not an exact wait.
func (s *BackupAuth) CheckBackupIDRotationLimit(ctx context.Context, account model.Account) (model.RotationLimit, error) {
	messagesLimiter := s.limiters.ForDescriptor(model.RateLimitSetBackupID)
	mediaLimiter := s.limiters.ForDescriptor(model.RateLimitSetPaidMediaBackupID)
	key := account.ID.String()

	isPaid := account.HasActiveVoucher(s.clock())

	hasMessagesPermits, err := messagesLimiter.HasAvailablePermits(ctx, key, 1)
	if err != nil {
		return model.RotationLimit{}, fmt.Errorf("failed to check messages backup-id permits: %w", err)
	}
	hasMediaPermits := true
	if isPaid {
		hasMediaPermits, err = mediaLimiter.HasAvailablePermits(ctx, key, 1)
		if err != nil {
			return model.RotationLimit{}, fmt.Errorf("failed to check media backup-id permits: %w", err)
		}
	}

	if hasMessagesPermits && hasMediaPermits {
		return model.RotationLimit{HasPermitsRemaining: true}, nil
	}

	next := messagesLimiter.PermitRegenerationDuration()
	if isPaid {
		next = max(next, mediaLimiter.PermitRegenerationDuration())
	}
	return model.RotationLimit{HasPermitsRemaining: false, NextPermitAvailable: next}, nil
}

// ClearExpiredVoucher removes the account's voucher once it has expired and returns the
// refreshed account. Accounts without an expired voucher are returned unchanged.
func (s *BackupAuth) ClearExpiredVoucher(ctx context.Context, account model.Account) (model.Account, error) {
	for attempt := 0; account.HasExpiredVoucher(s.clock()); attempt++ {
		if attempt >= maxVoucherClearAttempts {
			return model.Account{}, model.NewErrInternal("failed to clear expired backup voucher", nil)
		}
		updated, err := s.accounts.Update(ctx, account, func(a *model.Account) {
			// re-check, a concurrent redemption may have extended the voucher
			if a.HasExpiredVoucher(s.clock()) {
				a.BackupVoucher = nil
			}
		})
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to clear expired backup voucher: %w", err)
		}
		s.logger.Info("BackupAuth service: cleared expired backup voucher",
			"account_id", account.ID)
		s.metrics.RecordExpiredVoucherCleared()
		account = updated
	}

	return account, nil
}

// GetBackupAuthCredentials issues one credential per day of redemptionRange using the
// request previously committed for credentialType.
//
// Days on or before the expiration of the account's voucher carry the voucher's level,
// the rest carry the account's default level. An expired voucher is removed first,
// see ClearExpiredVoucher.
func (s *BackupAuth) GetBackupAuthCredentials(
	ctx context.Context,
	account model.Account,
	credentialType model.CredentialType,
	redemptionRange model.RedemptionRange,
) ([]model.Credential, error) {
	account, err := s.ClearExpiredVoucher(ctx, account)
	if err != nil {
		return nil, err
	}

	committed, ok := account.BackupCredentialRequest(credentialType)
	if !ok {
		return nil, model.NewErrNotFound("no blinded backup-id has been added to the account")
	}

	req, err := s.issuer.ParseRequest(committed)
	if err != nil {
		s.logger.Error("BackupAuth service: stored backup credential request is corrupt",
			"account_id", account.ID,
			"credential_type", credentialType.String(),
			"error", err.Error())
		return nil, model.NewErrInternal("could not deserialize stored request credential", err)
	}

	defaultLevel := s.configuredBackupLevel(account)
	voucher := account.BackupVoucher

	days := redemptionRange.Days()
	credentials := make([]model.Credential, 0, len(days))
	issued := make(map[model.BackupLevel]int, 2)
	for _, day := range days {
		level := defaultLevel
		if voucher != nil && !day.After(voucher.Expiration) {
			level = voucher.Level
		}
		credential, err := s.issuer.IssueCredential(req, day, level, credentialType)
		if err != nil {
			return nil, model.NewErrInternal("failed to issue backup credential", err)
		}
		credentials = append(credentials, model.Credential{Credential: credential, RedemptionTime: day})
		issued[level]++
	}

	for level, n := range issued {
		s.metrics.RecordCredentialsIssued(credentialType.String(), level.String(), n)
	}
	s.logger.Debug("BackupAuth service: issued backup credentials",
		"account_id", account.ID,
		"credential_type", credentialType.String(),
		"count", len(credentials))

	return credentials, nil
}

// RedeemReceipt verifies a paid receipt presentation and grants its level to the account.
func (s *BackupAuth) RedeemReceipt(ctx context.Context, account model.Account, presentation []byte) error {
	receipt, err := s.receipts.VerifyPresentation(presentation)
	if err != nil {
		s.metrics.RecordReceiptRedemption("invalid")
		return model.NewErrInvalidArgument("receipt credential presentation verification failed")
	}

	expiration := time.Unix(receipt.ExpirationEpochSeconds, 0).UTC()
	if !expiration.After(s.clock()) {
		s.metrics.RecordReceiptRedemption("expired")
		return model.NewErrInvalidArgument("receipt is already expired")
	}

	level, err := model.BackupLevelFromReceiptLevel(receipt.ReceiptLevel)
	if err != nil || level != model.BackupLevelPaid {
		s.metrics.RecordReceiptRedemption("unsupported_level")
		return model.NewErrInvalidArgument("server does not recognize the requested receipt level")
	}

	if _, ok := account.BackupCredentialRequest(model.CredentialTypeMedia); !ok {
		s.metrics.RecordReceiptRedemption("no_media_commitment")
		return model.NewErrAborted("account must have a backup-id commitment")
	}

	allowed, err := s.ledger.Put(ctx, receipt.Serial, receipt.ExpirationEpochSeconds, receipt.ReceiptLevel, account.ID)
	if err != nil {
		s.logger.Error("BackupAuth service: failed to record redeemed receipt",
			"account_id", account.ID,
			"error", err.Error())
		return fmt.Errorf("failed to record redeemed receipt: %w", err)
	}
	if !allowed {
		s.metrics.RecordReceiptRedemption("duplicate")
		return model.NewErrInvalidArgument("receipt serial is already redeemed")
	}

	if err := s.ExtendBackupVoucher(ctx, account, model.NewVoucher(level, expiration)); err != nil {
		return err
	}

	s.logger.Info("BackupAuth service: receipt redeemed",
		"account_id", account.ID,
		"level", level.String(),
		"expiration", expiration)
	s.metrics.RecordReceiptRedemption("success")
	return nil
}

// ExtendBackupVoucher merges voucher into the account's current voucher.
func (s *BackupAuth) ExtendBackupVoucher(ctx context.Context, account model.Account, voucher model.Voucher) error {
	incoming := model.NewVoucher(voucher.Level, voucher.Expiration)

	var shortened bool
	var previous model.Voucher
	_, err := s.accounts.Update(ctx, account, func(a *model.Account) {
		merged, short := model.MergeVoucher(a.BackupVoucher, incoming)
		shortened = short
		if short {
			previous = *a.BackupVoucher
		}
		a.BackupVoucher = &merged
	})
	if err != nil {
		s.logger.Error("BackupAuth service: failed to extend backup voucher",
			"account_id", account.ID,
			"error", err.Error())
		return fmt.Errorf("failed to extend backup voucher: %w", err)
	}

	if shortened {
		s.logger.Warn("BackupAuth service: redeemed receipt expires before the existing voucher",
			"account_id", account.ID,
			"receipt_expiration", incoming.Expiration,
			"voucher_expiration", previous.Expiration)
		s.metrics.RecordVoucherShortened()
	}
	return nil
}

func (s *BackupAuth) configuredBackupLevel(account model.Account) model.BackupLevel {
	if s.experiments.IsEnrolled(account.ID, model.BackupMediaExperiment) {
		return model.BackupLevelPaid
	}
	return model.BackupLevelFree
}

func equalRequests(a, b []byte) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
