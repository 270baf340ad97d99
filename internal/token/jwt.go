package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/backup-auth-server/internal/model"
)

// Claims identifies the account and the device a request acts for.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	DeviceID  uint32    `json:"device_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

const (
	defaultAccessTTL = 15 * time.Minute
	typeAccess       = "access"
)

// NewJWT creates a JWT token manager. A zero ttl selects the default of 15 minutes.
func NewJWT(secretKey string, issuer string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, issuer: issuer, now: time.Now}
}

var _ model.TokenManager = (*JWT)(nil)

// GenerateAccessToken creates a short-lived access token for a device of an account.
func (j *JWT) GenerateAccessToken(accountID uuid.UUID, deviceID uint32) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		AccountID: accountID,
		DeviceID:  deviceID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and returns the account and device it was issued for.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, uint32, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(j.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, 0, fmt.Errorf("access token is invalid")
	}
	if claims.TokenType != typeAccess {
		return uuid.Nil, 0, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.AccountID == uuid.Nil || claims.DeviceID == 0 {
		return uuid.Nil, 0, fmt.Errorf("access token has no account or device")
	}
	return claims.AccountID, claims.DeviceID, nil
}
