package model

import "context"

// SignedUpload is what a storage backend returns for a pre-signed upload.
type SignedUpload struct {
	Headers              map[string]string
	SignedUploadLocation string
}

// UploadSigner pre-signs uploads for object keys on one storage backend.
type UploadSigner interface {
	Sign(ctx context.Context, objectKey string) (SignedUpload, error)
}

// UploadDescriptor tells a client where and how to upload an object.
type UploadDescriptor struct {
	CDN                  int
	Key                  string
	Headers              map[string]string
	SignedUploadLocation string
}
