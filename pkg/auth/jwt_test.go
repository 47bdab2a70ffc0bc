package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regelwerk/backend/pkg/constants"
	"github.com/regelwerk/backend/pkg/models"
)

func TestTokenRoundTrip(t *testing.T) {
	session := models.UserSession{
		ID:    "u1",
		Name:  "Admin",
		Email: "admin@example.ch",
		Role:  constants.RoleAdmin,
	}

	token, err := GenerateToken(session)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, session, claims.User)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("geheim123")
	require.NoError(t, err)
	assert.NotEqual(t, "geheim123", hash)

	assert.True(t, VerifyPassword("geheim123", hash))
	assert.False(t, VerifyPassword("falsch", hash))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.ch"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
}
