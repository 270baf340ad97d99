package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/backup-auth-server/internal/logger"
	"github.com/dtroode/backup-auth-server/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// Authenticate validates bearer tokens and injects the account and device into context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header and returns a context carrying the authenticated device.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	if tokenString == "" {
		return nil, status.Error(codes.Unauthenticated, errMissingToken.Error())
	}

	accountID, deviceID, err := m.tokenManager.ParseAccessToken(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return nil, status.Error(codes.Unauthenticated, errInvalidToken.Error())
	}

	return m.contextManager.SetAuthToContext(ctx, accountID, deviceID), nil
}
