package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupLevelFromReceiptLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      int64
		want    BackupLevel
		wantErr bool
	}{
		{name: "free", in: 200, want: BackupLevelFree},
		{name: "paid", in: 201, want: BackupLevelPaid},
		{name: "unknown", in: 202, wantErr: true},
		{name: "overflow wraps onto paid", in: 201 + (1 << 32), wantErr: true},
		{name: "too large", in: math.MaxInt32 + 1, wantErr: true},
		{name: "too small", in: math.MinInt32 - 1, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := BackupLevelFromReceiptLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccount_BackupCredentialRequest(t *testing.T) {
	t.Parallel()

	var a Account
	_, ok := a.BackupCredentialRequest(CredentialTypeMessages)
	assert.False(t, ok)

	a.SetBackupCredentialRequests([]byte{1}, []byte{2})

	req, ok := a.BackupCredentialRequest(CredentialTypeMessages)
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, req)

	req, ok = a.BackupCredentialRequest(CredentialTypeMedia)
	assert.True(t, ok)
	assert.Equal(t, []byte{2}, req)

	_, ok = a.BackupCredentialRequest(CredentialType(9))
	assert.False(t, ok)
}

func TestDevice_IsPrimary(t *testing.T) {
	t.Parallel()
	assert.True(t, Device{ID: PrimaryDeviceID}.IsPrimary())
	assert.False(t, Device{ID: 2}.IsPrimary())
}

func TestParseCredentialType(t *testing.T) {
	t.Parallel()

	ct, err := ParseCredentialType("media")
	require.NoError(t, err)
	assert.Equal(t, CredentialTypeMedia, ct)
	assert.Equal(t, "messages", CredentialTypeMessages.String())

	_, err = ParseCredentialType("photos")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
