package minio

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	presignErr error
	presigned  []string
	expires    time.Duration
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}
func (f *fakeMinio) PresignedPutObject(_ context.Context, bucket, object string, expires time.Duration) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.presigned = append(f.presigned, object)
	f.expires = expires
	return &url.URL{
		Scheme:   "https",
		Host:     "cdn2.example.com",
		Path:     "/" + bucket + "/" + object,
		RawQuery: "X-Amz-Signature=deadbeef",
	}, nil
}

func TestNewSignerWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	s, err := NewSignerWithAPI(ctx, api, "b", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "b", s.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewSignerWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	s, err := NewSignerWithAPI(ctx, api, "bucket", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "bucket", s.bucket)
	assert.Equal(t, "bucket", api.madeBucket)
}

func TestNewSignerWithAPI_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewSignerWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "bucket", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")

	_, err = NewSignerWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "bucket", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")

	_, err = NewSignerWithAPI(ctx, &fakeMinio{bucketExists: true}, "bucket", 0)
	assert.Error(t, err)
}

func TestSigner_Sign(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	s, err := NewSignerWithAPI(ctx, api, "backups", 15*time.Minute)
	require.NoError(t, err)

	signed, err := s.Sign(ctx, "backups/dir/upload/key")
	require.NoError(t, err)

	assert.Equal(t, []string{"backups/dir/upload/key"}, api.presigned)
	assert.Equal(t, 15*time.Minute, api.expires)
	assert.Equal(t, "https://cdn2.example.com/backups/backups/dir/upload/key?X-Amz-Signature=deadbeef", signed.SignedUploadLocation)
	assert.Equal(t, "cdn2.example.com", signed.Headers["Host"])
}

func TestSigner_SignError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true, presignErr: errors.New("no creds")}
	s, err := NewSignerWithAPI(ctx, api, "backups", time.Minute)
	require.NoError(t, err)

	_, err = s.Sign(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to presign upload")
}
