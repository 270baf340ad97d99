package zkcred

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

const (
	requestVersion = 0x00
	// RequestLength is the size of a serialized blinded request.
	RequestLength = 1 + curve25519.PointSize
)

// ErrInvalidRequest is returned for malformed serialized requests.
var ErrInvalidRequest = errors.New("invalid blinded request")

// Any clamped scalar maps a small-order point to zero, so one fixed scalar
// is enough to reject them up front.
var trialScalar = [curve25519.ScalarSize]byte{1}

// Request is a blinded backup-id commitment.
type Request struct {
	point [curve25519.PointSize]byte
}

// NewRequest wraps a blinded point.
func NewRequest(point []byte) (*Request, error) {
	if len(point) != curve25519.PointSize {
		return nil, fmt.Errorf("%w: point must be %d bytes", ErrInvalidRequest, curve25519.PointSize)
	}
	var zero [curve25519.PointSize]byte
	if subtle.ConstantTimeCompare(point, zero[:]) == 1 {
		return nil, fmt.Errorf("%w: zero point", ErrInvalidRequest)
	}
	if _, err := curve25519.X25519(trialScalar[:], point); err != nil {
		return nil, fmt.Errorf("%w: low order point", ErrInvalidRequest)
	}
	r := &Request{}
	copy(r.point[:], point)
	return r, nil
}

// ParseRequest deserializes a request produced by Serialize.
func ParseRequest(serialized []byte) (*Request, error) {
	if len(serialized) != RequestLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidRequest, RequestLength, len(serialized))
	}
	if serialized[0] != requestVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrInvalidRequest, serialized[0])
	}
	return NewRequest(serialized[1:])
}

// Serialize returns the wire form of the request.
func (r *Request) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(RequestLength)
	buf.WriteByte(requestVersion)
	buf.Write(r.point[:])
	return buf.Bytes()
}
