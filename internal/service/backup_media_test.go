package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/backup-auth-server/internal/media"
	"github.com/dtroode/backup-auth-server/internal/mocks"
	"github.com/dtroode/backup-auth-server/internal/model"
	"github.com/dtroode/backup-auth-server/internal/testutil"
)

const testUploadCDN = 3

func newTestBackupMedia(t *testing.T) (*BackupMedia, *media.DescriptorEncoder, *mocks.UploadSigner) {
	t.Helper()
	signer := mocks.NewUploadSigner(t)
	enc, err := media.NewDescriptorEncoder(bytes.Repeat([]byte{8}, 32), map[int]model.UploadSigner{testUploadCDN: signer})
	require.NoError(t, err)
	s, err := NewBackupMedia(enc, testUploadCDN, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return s, enc, signer
}

func TestNewBackupMedia_UnknownCDN(t *testing.T) {
	t.Parallel()
	enc, err := media.NewDescriptorEncoder(bytes.Repeat([]byte{8}, 32), map[int]model.UploadSigner{2: mocks.NewUploadSigner(t)})
	require.NoError(t, err)

	_, err = NewBackupMedia(enc, 3, testutil.MakeNoopLogger())
	assert.Error(t, err)
}

func TestBackupMedia_CreateUploadDescriptor(t *testing.T) {
	t.Parallel()
	s, enc, signer := newTestBackupMedia(t)
	ctx := context.Background()

	account := model.Account{ID: uuid.New(), MessagesBackupRequest: newBlindedRequest(t)}
	dir, err := backupDir(account)
	require.NoError(t, err)

	signed := model.SignedUpload{
		Headers:              map[string]string{"Content-Type": "application/octet-stream"},
		SignedUploadLocation: "https://cdn3.example.com/put?X-Amz-Signature=abc",
	}
	signer.On("Sign", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "backups/"+dir+"/upload/")
	})).Return(signed, nil).Twice()

	first, err := s.CreateUploadDescriptor(ctx, account)
	require.NoError(t, err)
	second, err := s.CreateUploadDescriptor(ctx, account)
	require.NoError(t, err)

	assert.Equal(t, testUploadCDN, first.CDN)
	assert.Equal(t, signed.Headers, first.Headers)
	assert.Equal(t, signed.SignedUploadLocation, first.SignedUploadLocation)

	firstKey, err := enc.DecryptKey(first.Key)
	require.NoError(t, err)
	secondKey, err := enc.DecryptKey(second.Key)
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, secondKey)
}

func TestBackupMedia_CreateUploadDescriptor_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no backup-id", func(t *testing.T) {
		t.Parallel()
		s, _, _ := newTestBackupMedia(t)

		_, err := s.CreateUploadDescriptor(context.Background(), model.Account{ID: uuid.New()})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("signer failure", func(t *testing.T) {
		t.Parallel()
		s, _, signer := newTestBackupMedia(t)
		ctx := context.Background()

		signer.On("Sign", ctx, mock.Anything).Return(model.SignedUpload{}, errors.New("bucket unavailable")).Once()

		_, err := s.CreateUploadDescriptor(ctx, model.Account{ID: uuid.New(), MessagesBackupRequest: newBlindedRequest(t)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket unavailable")
	})
}

func TestBackupMedia_BackupDirFollowsRotation(t *testing.T) {
	t.Parallel()

	a, err := backupDir(model.Account{MessagesBackupRequest: newBlindedRequest(t)})
	require.NoError(t, err)
	b, err := backupDir(model.Account{MessagesBackupRequest: newBlindedRequest(t)})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBackupMedia_PrepareCopy(t *testing.T) {
	t.Parallel()
	s, enc, signer := newTestBackupMedia(t)
	ctx := context.Background()

	account := model.Account{ID: uuid.New(), MessagesBackupRequest: newBlindedRequest(t)}
	dir, err := backupDir(account)
	require.NoError(t, err)

	params, err := media.NewEncryptionParameters(bytes.Repeat([]byte{1}, media.KeySize), bytes.Repeat([]byte{2}, media.KeySize))
	require.NoError(t, err)

	mediaID := []byte{0xfb, 0xff, 0x01}
	wantKey := "backups/" + dir + "/media/-_8B"
	signer.On("Sign", ctx, wantKey).Return(model.SignedUpload{SignedUploadLocation: "https://cdn3.example.com/m"}, nil).Once()

	got, err := s.PrepareCopy(ctx, account, 2, "attachments/abc", 100, params, mediaID)
	require.NoError(t, err)

	assert.Equal(t, int64(16+16*((100+16)/16)+32), got.DestinationObjectSize)
	assert.Equal(t, got.Parameters.DestinationObjectSize(), got.DestinationObjectSize)
	assert.Equal(t, 2, got.Parameters.SourceCDN)
	assert.Equal(t, "attachments/abc", got.Parameters.SourceKey)
	assert.Equal(t, "https://cdn3.example.com/m", got.Upload.SignedUploadLocation)

	key, err := enc.DecryptKey(got.Upload.Key)
	require.NoError(t, err)
	assert.Equal(t, wantKey, key)
}

func TestBackupMedia_PrepareCopy_Invalid(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestBackupMedia(t)

	params, err := media.NewEncryptionParameters(bytes.Repeat([]byte{1}, media.KeySize), bytes.Repeat([]byte{2}, media.KeySize))
	require.NoError(t, err)
	account := model.Account{ID: uuid.New(), MessagesBackupRequest: newBlindedRequest(t)}

	_, err = s.PrepareCopy(context.Background(), account, 2, "attachments/abc", -1, params, []byte{1})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = s.PrepareCopy(context.Background(), account, 2, "", 10, params, []byte{1})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
