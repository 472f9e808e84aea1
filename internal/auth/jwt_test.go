package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "test-issuer")

	token, err := svc.GenerateToken("ext_abc123", "Amina", "amina@example.com", "amina", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ext_abc123", claims.Subject)
	assert.Equal(t, "Amina", claims.Name)
	assert.Equal(t, "amina@example.com", claims.Email)
	assert.Equal(t, "amina", claims.Username)
	assert.Equal(t, "https://cdn.example.com/a.png", claims.AvatarURL)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService("secret-one", "test-issuer")
	other := NewJWTService("secret-two", "test-issuer")

	token, err := svc.GenerateToken("ext_abc123", "", "", "", "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "test-issuer")

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}
