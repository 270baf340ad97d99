package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated account and device through request contexts.
type ContextManager interface {
	SetAuthToContext(ctx context.Context, accountID uuid.UUID, deviceID uint32) context.Context
	GetAuthFromContext(ctx context.Context) (uuid.UUID, uint32, bool)
}
