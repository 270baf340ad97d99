package media

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// KeySize is the size of both the cipher key and the MAC key.
	KeySize = 32

	ivSize    = aes.BlockSize
	blockSize = aes.BlockSize
	macSize   = sha256.Size
)

// EncryptionParameters holds the keys used to double encrypt a media object.
type EncryptionParameters struct {
	cipherKey []byte
	macKey    []byte
}

// NewEncryptionParameters creates EncryptionParameters from raw 32-byte keys.
func NewEncryptionParameters(cipherKey, macKey []byte) (EncryptionParameters, error) {
	if len(cipherKey) != KeySize {
		return EncryptionParameters{}, fmt.Errorf("cipher key must be %d bytes, got %d", KeySize, len(cipherKey))
	}
	if len(macKey) != KeySize {
		return EncryptionParameters{}, fmt.Errorf("mac key must be %d bytes, got %d", KeySize, len(macKey))
	}
	return EncryptionParameters{
		cipherKey: append([]byte(nil), cipherKey...),
		macKey:    append([]byte(nil), macKey...),
	}, nil
}

// ParseEncryptionParameters creates EncryptionParameters from standard base64 keys.
func ParseEncryptionParameters(cipherKey, macKey string) (EncryptionParameters, error) {
	ck, err := base64.StdEncoding.DecodeString(cipherKey)
	if err != nil {
		return EncryptionParameters{}, fmt.Errorf("failed to decode cipher key: %w", err)
	}
	mk, err := base64.StdEncoding.DecodeString(macKey)
	if err != nil {
		return EncryptionParameters{}, fmt.Errorf("failed to decode mac key: %w", err)
	}
	return NewEncryptionParameters(ck, mk)
}

// OutputSize returns the exact size of the encrypted envelope for an input of inputSize bytes.
//
// The envelope is IV || AES-256-CBC ciphertext with PKCS#7 padding || HMAC-SHA256. Padding
// always adds at least one byte, so a block-aligned input grows by a full block.
func (p EncryptionParameters) OutputSize(inputSize int64) int64 {
	return OutputSize(inputSize)
}

// OutputSize is EncryptionParameters.OutputSize without a receiver.
func OutputSize(inputSize int64) int64 {
	numBlocks := (inputSize + blockSize) / blockSize
	return ivSize + numBlocks*blockSize + macSize
}

// Encrypt produces the envelope described by OutputSize for plaintext.
func (p EncryptionParameters) Encrypt(plaintext []byte) ([]byte, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}
	return p.encryptWithIV(iv, plaintext)
}

func (p EncryptionParameters) encryptWithIV(iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(p.cipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pad(plaintext)
	out := make([]byte, ivSize+len(padded), ivSize+len(padded)+macSize)
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[ivSize:], padded)

	mac := hmac.New(sha256.New, p.macKey)
	mac.Write(out)
	return mac.Sum(out), nil
}

func pad(b []byte) []byte {
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}
