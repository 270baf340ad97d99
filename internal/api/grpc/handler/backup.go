package handler

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/media"
	"github.com/dtroode/backup-auth-server/internal/model"
)

// BackupAuthService defines backup-id and credential operations.
type BackupAuthService interface {
	CommitBackupID(ctx context.Context, account model.Account, device model.Device, messagesRequest, mediaRequest []byte) error
	CheckBackupIDRotationLimit(ctx context.Context, account model.Account) (model.RotationLimit, error)
	ClearExpiredVoucher(ctx context.Context, account model.Account) (model.Account, error)
	GetBackupAuthCredentials(ctx context.Context, account model.Account, credentialType model.CredentialType, redemptionRange model.RedemptionRange) ([]model.Credential, error)
	RedeemReceipt(ctx context.Context, account model.Account, presentation []byte) error
}

// BackupMediaService defines upload and media copy operations.
type BackupMediaService interface {
	CreateUploadDescriptor(ctx context.Context, account model.Account) (model.UploadDescriptor, error)
	PrepareCopy(ctx context.Context, account model.Account, sourceCDN int, sourceKey string, sourceLength int64, params media.EncryptionParameters, destinationMediaID []byte) (media.CopyPlan, error)
}

// AccountReader loads the authenticated account.
type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Account, error)
}

var _ BackupsServer = (*Backup)(nil)

// Backup handles gRPC endpoints of the Backups service.
type Backup struct {
	authService    BackupAuthService
	mediaService   BackupMediaService
	accounts       AccountReader
	contextManager model.ContextManager
	logger         *logger.Logger
	now            func() time.Time
}

// NewBackup creates a new Backup handler.
func NewBackup(
	authService BackupAuthService,
	mediaService BackupMediaService,
	accounts AccountReader,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Backup {
	return &Backup{
		authService:    authService,
		mediaService:   mediaService,
		accounts:       accounts,
		contextManager: contextManager,
		logger:         logger,
		now:            time.Now,
	}
}

func (h *Backup) authenticated(ctx context.Context) (model.Account, model.Device, error) {
	accountID, deviceID, ok := h.contextManager.GetAuthFromContext(ctx)
	if !ok {
		return model.Account{}, model.Device{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	account, err := h.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.Device{}, status.Error(codes.Unauthenticated, "account not found")
		}
		h.logger.Error("Backup handler: failed to load account",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, model.Device{}, handleError(ctx, err)
	}

	return account, model.Device{ID: deviceID}, nil
}

// SetBackupID commits blinded backup-ids for the account.
func (h *Backup) SetBackupID(ctx context.Context, req *SetBackupIDRequest) (*SetBackupIDResponse, error) {
	account, device, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Backup handler: processing set backup-id request",
		"account_id", account.ID,
		"device_id", device.ID)

	err = h.authService.CommitBackupID(ctx, account, device,
		req.MessagesBackupAuthCredentialRequest, req.MediaBackupAuthCredentialRequest)
	if err != nil {
		h.logger.Info("Backup handler: set backup-id failed",
			"account_id", account.ID,
			"error", err.Error())
		return nil, handleError(ctx, err)
	}

	return &SetBackupIDResponse{}, nil
}

// CheckBackupIDRotationLimit reports whether the backup-id may be rotated now.
func (h *Backup) CheckBackupIDRotationLimit(ctx context.Context, _ *CheckBackupIDRotationLimitRequest) (*CheckBackupIDRotationLimitResponse, error) {
	account, _, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	limit, err := h.authService.CheckBackupIDRotationLimit(ctx, account)
	if err != nil {
		h.logger.Error("Backup handler: rotation limit check failed",
			"account_id", account.ID,
			"error", err.Error())
		return nil, handleError(ctx, err)
	}

	return &CheckBackupIDRotationLimitResponse{
		HasPermitsRemaining: limit.HasPermitsRemaining,
		RetryAfterSeconds:   int64(math.Ceil(limit.NextPermitAvailable.Seconds())),
	}, nil
}

// GetBackupAuthCredentials issues credentials of the requested types for every day of the requested range.
func (h *Backup) GetBackupAuthCredentials(ctx context.Context, req *GetBackupAuthCredentialsRequest) (*GetBackupAuthCredentialsResponse, error) {
	account, _, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	redemptionRange, err := model.NewRedemptionRange(h.now(),
		time.Unix(req.RedemptionStartSeconds, 0), time.Unix(req.RedemptionEndSeconds, 0))
	if err != nil {
		return nil, handleError(ctx, err)
	}

	credentialTypes, err := requestedCredentialTypes(req.CredentialTypes)
	if err != nil {
		return nil, handleError(ctx, err)
	}

	// clear once so each credential type sees the same refreshed account
	refreshed, err := h.authService.ClearExpiredVoucher(ctx, account)
	if err != nil {
		h.logger.Error("Backup handler: failed to clear expired voucher",
			"account_id", account.ID,
			"error", err.Error())
		return nil, handleError(ctx, err)
	}
	account = refreshed

	resp := &GetBackupAuthCredentialsResponse{Credentials: make(map[string][]BackupAuthCredential, len(credentialTypes))}
	for _, credentialType := range credentialTypes {
		credentials, err := h.authService.GetBackupAuthCredentials(ctx, account, credentialType, redemptionRange)
		if err != nil {
			h.logger.Info("Backup handler: credential issuance failed",
				"account_id", account.ID,
				"credential_type", credentialType.String(),
				"error", err.Error())
			return nil, handleError(ctx, err)
		}

		out := make([]BackupAuthCredential, 0, len(credentials))
		for _, c := range credentials {
			out = append(out, BackupAuthCredential{Credential: c.Credential, RedemptionTime: c.RedemptionTime.Unix()})
		}
		resp.Credentials[credentialType.String()] = out
	}

	return resp, nil
}

// RedeemReceipt redeems a receipt presentation for paid backup access.
func (h *Backup) RedeemReceipt(ctx context.Context, req *RedeemReceiptRequest) (*RedeemReceiptResponse, error) {
	account, _, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.authService.RedeemReceipt(ctx, account, req.ReceiptCredentialPresentation); err != nil {
		h.logger.Info("Backup handler: receipt redemption failed",
			"account_id", account.ID,
			"error", err.Error())
		return nil, handleError(ctx, err)
	}

	h.logger.Info("Backup handler: receipt redeemed",
		"account_id", account.ID)
	return &RedeemReceiptResponse{}, nil
}

// GetUploadForm returns where to upload the next message backup.
func (h *Backup) GetUploadForm(ctx context.Context, _ *GetUploadFormRequest) (*UploadForm, error) {
	account, _, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	descriptor, err := h.mediaService.CreateUploadDescriptor(ctx, account)
	if err != nil {
		return nil, handleError(ctx, err)
	}

	form := toUploadForm(descriptor)
	return &form, nil
}

// PrepareMediaCopy plans copying an attachment into the backup and returns its destination.
func (h *Backup) PrepareMediaCopy(ctx context.Context, req *PrepareMediaCopyRequest) (*PrepareMediaCopyResponse, error) {
	account, _, err := h.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	params, err := media.ParseEncryptionParameters(req.EncryptionKey, req.HMACKey)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid media encryption keys")
	}

	plan, err := h.mediaService.PrepareCopy(ctx, account,
		req.SourceAttachment.CDN, req.SourceAttachment.Key, req.ObjectLength, params, req.MediaID)
	if err != nil {
		return nil, handleError(ctx, err)
	}

	return &PrepareMediaCopyResponse{
		DestinationObjectSize: plan.DestinationObjectSize,
		Upload:                toUploadForm(plan.Upload),
	}, nil
}

func requestedCredentialTypes(names []string) ([]model.CredentialType, error) {
	if len(names) == 0 {
		return []model.CredentialType{model.CredentialTypeMessages, model.CredentialTypeMedia}, nil
	}
	types := make([]model.CredentialType, 0, len(names))
	seen := make(map[model.CredentialType]bool, len(names))
	for _, name := range names {
		t, err := model.ParseCredentialType(name)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}

func toUploadForm(d model.UploadDescriptor) UploadForm {
	return UploadForm{
		CDN:                  d.CDN,
		Key:                  d.Key,
		Headers:              d.Headers,
		SignedUploadLocation: d.SignedUploadLocation,
	}
}
