package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"path"

	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/media"
	"github.com/dtroode/backup-auth-server/internal/model"
)

const (
	backupsPrefix    = "backups"
	uploadKeyLength  = 15
	backupDirContext = "backup-dir"
)

// BackupMedia hands out upload locations inside an account's backup directory.
type BackupMedia struct {
	encoder   *media.DescriptorEncoder
	uploadCDN int
	logger    *logger.Logger
}

func NewBackupMedia(encoder *media.DescriptorEncoder, uploadCDN int, logger *logger.Logger) (*BackupMedia, error) {
	if !encoder.HasCDN(uploadCDN) {
		return nil, fmt.Errorf("no upload signer configured for cdn %d", uploadCDN)
	}
	return &BackupMedia{encoder: encoder, uploadCDN: uploadCDN, logger: logger}, nil
}

// CreateUploadDescriptor returns a descriptor for uploading a message backup under a fresh random key.
func (s *BackupMedia) CreateUploadDescriptor(ctx context.Context, account model.Account) (model.UploadDescriptor, error) {
	dir, err := backupDir(account)
	if err != nil {
		return model.UploadDescriptor{}, err
	}

	name := make([]byte, uploadKeyLength)
	if _, err := rand.Read(name); err != nil {
		return model.UploadDescriptor{}, fmt.Errorf("failed to generate upload key: %w", err)
	}
	objectKey := path.Join(backupsPrefix, dir, "upload", base64.RawURLEncoding.EncodeToString(name))

	descriptor, err := s.encoder.Encode(ctx, s.uploadCDN, objectKey)
	if err != nil {
		s.logger.Error("BackupMedia service: failed to create upload descriptor",
			"account_id", account.ID,
			"error", err.Error())
		return model.UploadDescriptor{}, fmt.Errorf("failed to create upload descriptor: %w", err)
	}

	s.logger.Debug("BackupMedia service: upload descriptor created",
		"account_id", account.ID,
		"cdn", descriptor.CDN)
	return descriptor, nil
}

// PrepareCopy plans a copy of an existing media object into the account's backup directory.
func (s *BackupMedia) PrepareCopy(
	ctx context.Context,
	account model.Account,
	sourceCDN int,
	sourceKey string,
	sourceLength int64,
	params media.EncryptionParameters,
	destinationMediaID []byte,
) (media.CopyPlan, error) {
	dir, err := backupDir(account)
	if err != nil {
		return media.CopyPlan{}, err
	}

	copyParams, err := media.NewCopyParameters(sourceCDN, sourceKey, sourceLength, params, destinationMediaID)
	if err != nil {
		return media.CopyPlan{}, model.NewErrInvalidArgument(err.Error())
	}

	objectKey := path.Join(backupsPrefix, dir, "media", base64.RawURLEncoding.EncodeToString(destinationMediaID))
	descriptor, err := s.encoder.Encode(ctx, s.uploadCDN, objectKey)
	if err != nil {
		s.logger.Error("BackupMedia service: failed to create copy destination",
			"account_id", account.ID,
			"error", err.Error())
		return media.CopyPlan{}, fmt.Errorf("failed to create copy destination: %w", err)
	}

	size := copyParams.DestinationObjectSize()
	s.logger.Debug("BackupMedia service: media copy planned",
		"account_id", account.ID,
		"source_cdn", sourceCDN,
		"source_length", sourceLength,
		"destination_size", size)

	return media.CopyPlan{
		Parameters:            copyParams,
		DestinationObjectSize: size,
		Upload:                descriptor,
	}, nil
}

// backupDir is derived from the committed messages backup-id so it changes on rotation.
func backupDir(account model.Account) (string, error) {
	req, ok := account.BackupCredentialRequest(model.CredentialTypeMessages)
	if !ok {
		return "", model.NewErrNotFound("no blinded backup-id has been added to the account")
	}
	h := sha256.New()
	h.Write([]byte(backupDirContext))
	h.Write(req)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)[:16]), nil
}
