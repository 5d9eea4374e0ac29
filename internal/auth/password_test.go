package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(4) // min cost, tests only

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "password123"},
		{name: "symbols", password: "P@ssw0rd!#$%"},
		{name: "unicode", password: "пароль123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, h.Verify(tt.password, hash))
			assert.False(t, h.Verify(tt.password+"x", hash))
		})
	}
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	h := NewPasswordHasher(4)

	// A broken stored hash must read as "no match", never as an error the
	// caller could distinguish.
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		assert.False(t, h.Verify("whatever", hash))
	}
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	// Out-of-range costs must still produce a working hasher.
	for _, cost := range []int{-1, 0, 99} {
		h := NewPasswordHasher(cost)
		hash, err := h.Hash("pw")
		require.NoError(t, err)
		assert.True(t, h.Verify("pw", hash))
	}
}
