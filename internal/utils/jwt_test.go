package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken_EncodesSubjectAndRole(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "kitchen", 15)
	require.NoError(t, err)
	assert.WithinDuration(t, tok.Exp, tok.Exp, 0)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "kitchen", claims["role"])
}

func TestNewAccessToken_RejectsWrongSecretOnVerify(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "online", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("different-secret"), nil
	})
	assert.Error(t, err)
}
