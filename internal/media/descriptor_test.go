package media

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/backup-auth-server/internal/model"
)

type fakeSigner struct {
	signed model.SignedUpload
	err    error
	keys   []string
}

func (f *fakeSigner) Sign(_ context.Context, objectKey string) (model.SignedUpload, error) {
	f.keys = append(f.keys, objectKey)
	return f.signed, f.err
}

func TestDescriptorEncoder_Encode(t *testing.T) {
	t.Parallel()

	signer := &fakeSigner{signed: model.SignedUpload{
		Headers:              map[string]string{"host": "cdn.example.com"},
		SignedUploadLocation: "https://cdn.example.com/upload?sig=abc",
	}}
	enc, err := NewDescriptorEncoder(bytes.Repeat([]byte{3}, 32), map[int]model.UploadSigner{2: signer})
	require.NoError(t, err)

	desc, err := enc.Encode(context.Background(), 2, "backups/dir/upload/key")
	require.NoError(t, err)

	assert.Equal(t, 2, desc.CDN)
	assert.Equal(t, signer.signed.Headers, desc.Headers)
	assert.Equal(t, signer.signed.SignedUploadLocation, desc.SignedUploadLocation)
	assert.Equal(t, []string{"backups/dir/upload/key"}, signer.keys)
	assert.NotContains(t, desc.Key, "backups")

	plain, err := enc.DecryptKey(desc.Key)
	require.NoError(t, err)
	assert.Equal(t, "backups/dir/upload/key", plain)
}

func TestDescriptorEncoder_Errors(t *testing.T) {
	t.Parallel()

	signer := &fakeSigner{err: errors.New("sign-fail")}
	enc, err := NewDescriptorEncoder(bytes.Repeat([]byte{3}, 32), map[int]model.UploadSigner{2: signer})
	require.NoError(t, err)

	_, err = enc.Encode(context.Background(), 7, "k")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = enc.Encode(context.Background(), 2, "k")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sign upload")

	_, err = enc.DecryptKey("not base64 !")
	assert.Error(t, err)
	_, err = enc.DecryptKey("AAAA")
	assert.Error(t, err)

	_, err = NewDescriptorEncoder(make([]byte, 5), map[int]model.UploadSigner{2: signer})
	assert.Error(t, err)
	_, err = NewDescriptorEncoder(make([]byte, 32), nil)
	assert.Error(t, err)
}

func TestDescriptorEncoder_KeysAreRandomized(t *testing.T) {
	t.Parallel()

	enc, err := NewDescriptorEncoder(bytes.Repeat([]byte{3}, 32), map[int]model.UploadSigner{2: &fakeSigner{}})
	require.NoError(t, err)

	a, err := enc.EncryptKey("same")
	require.NoError(t, err)
	b, err := enc.EncryptKey("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
