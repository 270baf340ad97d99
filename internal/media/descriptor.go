package media

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"maps"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// DescriptorEncoder builds upload descriptors whose object keys are opaque to clients.
type DescriptorEncoder struct {
	aead    cipher.AEAD
	signers map[int]model.UploadSigner
}

// NewDescriptorEncoder creates a DescriptorEncoder with a 32-byte key and one signer per CDN.
func NewDescriptorEncoder(key []byte, signers map[int]model.UploadSigner) (*DescriptorEncoder, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cipher: %w", err)
	}
	if len(signers) == 0 {
		return nil, fmt.Errorf("at least one upload signer is required")
	}
	return &DescriptorEncoder{aead: aead, signers: maps.Clone(signers)}, nil
}

// HasCDN reports whether a signer is registered for cdn.
func (e *DescriptorEncoder) HasCDN(cdn int) bool {
	_, ok := e.signers[cdn]
	return ok
}

// Encode signs an upload of objectKey on cdn and encrypts the key.
// Headers and the signed location are passed through unmodified.
func (e *DescriptorEncoder) Encode(ctx context.Context, cdn int, objectKey string) (model.UploadDescriptor, error) {
	signer, ok := e.signers[cdn]
	if !ok {
		return model.UploadDescriptor{}, model.NewErrInvalidArgument(fmt.Sprintf("unknown cdn %d", cdn))
	}

	signed, err := signer.Sign(ctx, objectKey)
	if err != nil {
		return model.UploadDescriptor{}, fmt.Errorf("failed to sign upload: %w", err)
	}

	encryptedKey, err := e.EncryptKey(objectKey)
	if err != nil {
		return model.UploadDescriptor{}, err
	}

	return model.UploadDescriptor{
		CDN:                  cdn,
		Key:                  encryptedKey,
		Headers:              signed.Headers,
		SignedUploadLocation: signed.SignedUploadLocation,
	}, nil
}

// EncryptKey encrypts an object key into its external form.
func (e *DescriptorEncoder) EncryptKey(objectKey string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(objectKey)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(objectKey), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptKey recovers the object key from its external form.
func (e *DescriptorEncoder) DecryptKey(encryptedKey string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encryptedKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode key: %w", err)
	}
	if len(sealed) < e.aead.NonceSize() {
		return "", fmt.Errorf("encrypted key is too short")
	}
	nonce, ciphertext := sealed[:e.aead.NonceSize()], sealed[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt key: %w", err)
	}
	return string(plaintext), nil
}
