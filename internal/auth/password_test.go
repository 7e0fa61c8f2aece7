package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestPasswords() *Passwords {
	return NewPasswords(bcrypt.MinCost)
}

func TestNewPasswords_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswords(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswords(99).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswords(bcrypt.MinCost).cost)
}

func TestPasswords_Hash_ValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"8 characters", "password"},
		{"long password", "this-is-a-very-long-password-123!@#"},
		{"with unicode", "contraseña-ñandú"},
	}

	p := newTestPasswords()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := p.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.GreaterOrEqual(t, len(hash), 60)
			assert.True(t, p.Check(tt.password, hash))
		})
	}
}

func TestPasswords_Hash_ShortPassword(t *testing.T) {
	p := newTestPasswords()
	for _, password := range []string{"", "a", "1234567"} {
		hash, err := p.Hash(password)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, hash)
	}
}

func TestPasswords_Hash_Salted(t *testing.T) {
	p := newTestPasswords()

	hash1, err := p.Hash("testpassword123")
	require.NoError(t, err)
	hash2, err := p.Hash("testpassword123")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestPasswords_Check(t *testing.T) {
	p := newTestPasswords()
	hash, err := p.Hash("Password123")
	require.NoError(t, err)

	assert.True(t, p.Check("Password123", hash))
	assert.False(t, p.Check("password123", hash))
	assert.False(t, p.Check("", hash))
	assert.False(t, p.Check("Password123", "invalid-hash"))
	assert.False(t, p.Check("Password123", ""))
}
