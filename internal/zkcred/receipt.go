package zkcred

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/dtroode/backup-auth-server/internal/model"
)

const (
	presentationVersion = 0x01
	// ReceiptSerialLength is the size of a receipt serial.
	ReceiptSerialLength = 16
	// PresentationLength is the size of a serialized receipt presentation.
	PresentationLength = 1 + ReceiptSerialLength + 8 + 8 + sha256.Size
)

var _ model.ReceiptVerifier = (*ReceiptOperations)(nil)

// ReceiptOperations issues and verifies receipt presentations under a shared secret.
type ReceiptOperations struct {
	secret []byte
}

// NewReceiptOperations creates ReceiptOperations from a SecretLength-byte secret.
func NewReceiptOperations(secret []byte) (*ReceiptOperations, error) {
	if len(secret) != SecretLength {
		return nil, fmt.Errorf("receipt secret must be %d bytes, got %d", SecretLength, len(secret))
	}
	s := make([]byte, SecretLength)
	copy(s, secret)
	return &ReceiptOperations{secret: s}, nil
}

// Present produces a presentation for a paid receipt.
func (o *ReceiptOperations) Present(serial []byte, expirationEpochSeconds int64, receiptLevel int64) ([]byte, error) {
	if len(serial) != ReceiptSerialLength {
		return nil, fmt.Errorf("receipt serial must be %d bytes", ReceiptSerialLength)
	}
	body := make([]byte, 0, PresentationLength)
	body = append(body, presentationVersion)
	body = append(body, serial...)
	body = binary.BigEndian.AppendUint64(body, uint64(expirationEpochSeconds))
	body = binary.BigEndian.AppendUint64(body, uint64(receiptLevel))
	return append(body, o.mac(body)...), nil
}

// VerifyPresentation authenticates a presentation and returns its contents.
func (o *ReceiptOperations) VerifyPresentation(presentation []byte) (model.ReceiptPresentation, error) {
	if len(presentation) != PresentationLength || presentation[0] != presentationVersion {
		return model.ReceiptPresentation{}, model.NewErrVerificationFailed("malformed receipt presentation")
	}
	body, tag := presentation[:PresentationLength-sha256.Size], presentation[PresentationLength-sha256.Size:]
	if !hmac.Equal(tag, o.mac(body)) {
		return model.ReceiptPresentation{}, model.NewErrVerificationFailed("receipt presentation signature mismatch")
	}

	serial := make([]byte, ReceiptSerialLength)
	copy(serial, body[1:1+ReceiptSerialLength])
	rest := body[1+ReceiptSerialLength:]
	return model.ReceiptPresentation{
		Serial:                 serial,
		ExpirationEpochSeconds: int64(binary.BigEndian.Uint64(rest[0:8])),
		ReceiptLevel:           int64(binary.BigEndian.Uint64(rest[8:16])),
	}, nil
}

func (o *ReceiptOperations) mac(body []byte) []byte {
	h := hmac.New(sha256.New, o.secret)
	h.Write(body)
	return h.Sum(nil)
}
