package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", "backup-auth", 0)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u, 3)
	require.NoError(t, err)
	gotAccount, gotDevice, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u, gotAccount)
	require.Equal(t, uint32(3), gotDevice)
}

func TestJWT_WrongSecret(t *testing.T) {
	access, err := NewJWT("secret", "", 0).GenerateAccessToken(uuid.New(), 1)
	require.NoError(t, err)

	_, _, err = NewJWT("other", "", 0).ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_WrongIssuer(t *testing.T) {
	access, err := NewJWT("secret", "someone-else", 0).GenerateAccessToken(uuid.New(), 1)
	require.NoError(t, err)

	_, _, err = NewJWT("secret", "backup-auth", 0).ParseAccessToken(access)
	require.Error(t, err)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	j := NewJWT("secret", "", time.Minute)
	issued := time.Now()
	j.now = func() time.Time { return issued }

	access, err := j.GenerateAccessToken(uuid.New(), 1)
	require.NoError(t, err)
	_, _, err = j.ParseAccessToken(access)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, _, err = j.ParseAccessToken(access)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := NewJWT("secret", "", 0)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		AccountID:        uuid.New(),
		DeviceID:         1,
		TokenType:        "refresh",
	})
	signed, err := token.SignedString(j.secretKey)
	require.NoError(t, err)

	_, _, err = j.ParseAccessToken(signed)
	require.Error(t, err)
}

func TestJWT_MissingDevice(t *testing.T) {
	j := NewJWT("secret", "", 0)
	access, err := j.GenerateAccessToken(uuid.New(), 0)
	require.NoError(t, err)

	_, _, err = j.ParseAccessToken(access)
	require.Error(t, err)
}
