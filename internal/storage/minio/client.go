package minio

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
}

var _ model.UploadSigner = (*Signer)(nil)

// Signer pre-signs PUT uploads into a single MinIO bucket.
type Signer struct {
	api     minioAPI
	bucket  string
	expires time.Duration
}

// NewSigner creates a Signer using a real *minio.Client instance.
func NewSigner(ctx context.Context, client *minio.Client, bucket string, expires time.Duration) (*Signer, error) {
	return NewSignerWithAPI(ctx, client, bucket, expires)
}

// NewSignerWithAPI allows injecting a mockable API (used in tests).
func NewSignerWithAPI(ctx context.Context, api minioAPI, bucket string, expires time.Duration) (*Signer, error) {
	if expires <= 0 {
		return nil, fmt.Errorf("upload expiry must be positive")
	}
	s := &Signer{
		api:     api,
		bucket:  bucket,
		expires: expires,
	}

	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

// ensureBucketExists creates the bucket if it doesn't exist
func (s *Signer) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Sign returns a pre-signed PUT url for objectKey.
func (s *Signer) Sign(ctx context.Context, objectKey string) (model.SignedUpload, error) {
	u, err := s.api.PresignedPutObject(ctx, s.bucket, objectKey, s.expires)
	if err != nil {
		return model.SignedUpload{}, fmt.Errorf("failed to presign upload: %w", err)
	}
	return model.SignedUpload{
		Headers:              map[string]string{"Host": u.Host},
		SignedUploadLocation: u.String(),
	}, nil
}
