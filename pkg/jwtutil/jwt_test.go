package jwtutil

import (
	"testing"

	"inventory-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken("jane", "jane@example.com", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateToken_WrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "key-one", ExpirationHours: 1})
	token, err := GenerateToken("jane", "", 1)
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "key-two", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestUninitialized(t *testing.T) {
	Initialize(nil)

	_, err := GenerateToken("jane", "", 1)
	assert.Error(t, err)

	_, err = ValidateToken("anything")
	assert.Error(t, err)
}
