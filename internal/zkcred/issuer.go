package zkcred

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/dtroode/backup-auth-server/internal/model"
)

const (
	credentialVersion = 0x00
	// SecretLength is the size of the server secret.
	SecretLength = 32
	// CredentialLength is the size of an issued credential.
	CredentialLength = 1 + 8 + 4 + 1 + curve25519.PointSize

	credentialInfo = "backup-auth-credential-v0"
)

var _ model.CredentialIssuer = (*Issuer)(nil)

// Issuer issues backup credentials with a server secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an Issuer from a SecretLength-byte server secret.
func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) != SecretLength {
		return nil, fmt.Errorf("server secret must be %d bytes, got %d", SecretLength, len(secret))
	}
	s := make([]byte, SecretLength)
	copy(s, secret)
	return &Issuer{secret: s}, nil
}

// ParseRequest deserializes a stored blinded request.
func (i *Issuer) ParseRequest(serialized []byte) (model.BlindedRequest, error) {
	return ParseRequest(serialized)
}

// IssueCredential issues a credential for one redemption day.
//
// The result is a deterministic function of the request, the day, the level, the
// credential type and the server secret.
func (i *Issuer) IssueCredential(
	req model.BlindedRequest,
	redemptionTime time.Time,
	level model.BackupLevel,
	credentialType model.CredentialType,
) ([]byte, error) {
	r, ok := req.(*Request)
	if !ok {
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
	if !model.IsDayAligned(redemptionTime) {
		return nil, fmt.Errorf("redemption time %s is not day aligned", redemptionTime)
	}

	attrs := encodeAttributes(redemptionTime, level, credentialType)
	scalar, err := i.deriveScalar(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to derive issuance key: %w", err)
	}

	point, err := curve25519.X25519(scalar, r.point[:])
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	out := make([]byte, 0, CredentialLength)
	out = append(out, credentialVersion)
	out = append(out, attrs...)
	out = append(out, point...)
	return out, nil
}

func (i *Issuer) deriveScalar(attrs []byte) ([]byte, error) {
	info := append([]byte(credentialInfo), attrs...)
	scalar := make([]byte, curve25519.ScalarSize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, i.secret, nil, info), scalar); err != nil {
		return nil, err
	}
	return scalar, nil
}

func encodeAttributes(redemptionTime time.Time, level model.BackupLevel, credentialType model.CredentialType) []byte {
	attrs := make([]byte, 8+4+1)
	binary.BigEndian.PutUint64(attrs[0:8], uint64(redemptionTime.Unix()))
	binary.BigEndian.PutUint32(attrs[8:12], uint32(level))
	attrs[12] = byte(credentialType)
	return attrs
}

// CredentialAttributes are the public attributes embedded in an issued credential.
type CredentialAttributes struct {
	RedemptionTime time.Time
	Level          model.BackupLevel
	CredentialType model.CredentialType
}

// ReadAttributes decodes the public attributes of an issued credential.
func ReadAttributes(credential []byte) (CredentialAttributes, error) {
	if len(credential) != CredentialLength || credential[0] != credentialVersion {
		return CredentialAttributes{}, errors.New("malformed credential")
	}
	return CredentialAttributes{
		RedemptionTime: time.Unix(int64(binary.BigEndian.Uint64(credential[1:9])), 0).UTC(),
		Level:          model.BackupLevel(int32(binary.BigEndian.Uint32(credential[9:13]))),
		CredentialType: model.CredentialType(credential[13]),
	}, nil
}
