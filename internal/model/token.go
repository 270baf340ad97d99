package model

import "github.com/google/uuid"

// TokenManager generates and validates access tokens for account devices.
type TokenManager interface {
	GenerateAccessToken(accountID uuid.UUID, deviceID uint32) (string, error)
	ParseAccessToken(token string) (uuid.UUID, uint32, error)
}
