package context

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// Metadata keys used to carry the authenticated caller in the gRPC context.
const (
	accountIDKey string = "x-account-id"
	deviceIDKey  string = "x-device-id"
)

// Manager stores and retrieves the authenticated account and device in gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetAuthToContext returns a context whose incoming metadata carries accountID and deviceID.
func (m *Manager) SetAuthToContext(ctx context.Context, accountID uuid.UUID, deviceID uint32) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	} else {
		md = md.Copy()
	}
	md.Set(accountIDKey, accountID.String())
	md.Set(deviceIDKey, strconv.FormatUint(uint64(deviceID), 10))

	return metadata.NewIncomingContext(ctx, md)
}

// GetAuthFromContext returns the account and device set by SetAuthToContext.
func (m *Manager) GetAuthFromContext(ctx context.Context) (uuid.UUID, uint32, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, 0, false
	}

	accountIDs := md.Get(accountIDKey)
	deviceIDs := md.Get(deviceIDKey)
	if len(accountIDs) == 0 || len(deviceIDs) == 0 {
		return uuid.Nil, 0, false
	}

	accountID, err := uuid.Parse(accountIDs[0])
	if err != nil {
		return uuid.Nil, 0, false
	}
	deviceID, err := strconv.ParseUint(deviceIDs[0], 10, 32)
	if err != nil {
		return uuid.Nil, 0, false
	}

	return accountID, uint32(deviceID), true
}
