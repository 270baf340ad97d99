package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// presigner is the part of *s3.PresignClient the signer needs.
type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Config configures an S3 compatible upload target.
type Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UsePathStyle bool
	Expires      time.Duration
}

var _ model.UploadSigner = (*Signer)(nil)

// Signer pre-signs PUT uploads into a single S3 bucket.
type Signer struct {
	presigner presigner
	bucket    string
	expires   time.Duration
}

// NewSigner builds a presign client from static credentials.
func NewSigner(ctx context.Context, cfg Config) (*Signer, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newSigner(s3.NewPresignClient(client), cfg.Bucket, cfg.Expires)
}

func newSigner(p presigner, bucket string, expires time.Duration) (*Signer, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if expires <= 0 {
		return nil, fmt.Errorf("upload expiry must be positive")
	}
	return &Signer{presigner: p, bucket: bucket, expires: expires}, nil
}

// Sign returns a pre-signed PUT request for objectKey.
func (s *Signer) Sign(ctx context.Context, objectKey string) (model.SignedUpload, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return model.SignedUpload{}, fmt.Errorf("failed to presign upload: %w", err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	return model.SignedUpload{
		Headers:              headers,
		SignedUploadLocation: req.URL,
	}, nil
}
