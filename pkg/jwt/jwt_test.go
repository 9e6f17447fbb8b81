package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := GenerateToken("secret", 7, "admin@gym.com", "Admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, "admin@gym.com", claims.Email)
	assert.Equal(t, "Admin", claims.Name)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	tok, err := GenerateToken("secret", 7, "admin@gym.com", "Admin", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("other", tok)
	assert.Error(t, err)

	expired, err := GenerateToken("secret", 7, "admin@gym.com", "Admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.Error(t, err)

	_, err = ParseToken("secret", "not-a-token")
	assert.Error(t, err)
}
