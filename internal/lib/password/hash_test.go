package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "regular password", password: "mySecurePassword123"},
		{name: "unicode password", password: "пароль123"},
		{name: "exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "too long", password: strings.Repeat("a", 73), wantErr: ErrTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.password)))
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	h1, err := GetHash("samePassword")
	require.NoError(t, err)
	h2, err := GetHash("samePassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
