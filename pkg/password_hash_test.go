package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_UploadSecret(t *testing.T) {
	secretHash, err := HashPassword("lift-heavy")
	require.NoError(t, err)
	require.NotEmpty(t, secretHash)

	cost, err := bcrypt.Cost([]byte(secretHash))
	require.NoError(t, err)
	assert.Equal(t, passwordHashCost, cost)

	assert.True(t, CheckPasswordHash("lift-heavy", secretHash))
	assert.False(t, CheckPasswordHash("lift-heavier", secretHash))
	assert.False(t, CheckPasswordHash("", secretHash))
}

func TestCheckPasswordHash_BadHash(t *testing.T) {
	for name, hash := range map[string]string{
		"empty":     "",
		"plaintext": "lift-heavy",
		"truncated": "$2a$14$z8cd4yJpzP40Qh2F2BhiMO",
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, CheckPasswordHash("lift-heavy", hash))
		})
	}
}
