package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenCarriesClaims(t *testing.T) {
	at, err := NewAccessToken("topsecret", 42, "PHOTOGRAPHER", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("topsecret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "PHOTOGRAPHER", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("topsecret", 1, "CLIENT", 5)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}

func TestHashRefreshRawDeterministic(t *testing.T) {
	ref, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEmpty(t, ref.Raw)

	h1 := HashRefreshRaw(ref.Raw)
	h2 := HashRefreshRaw(ref.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, HashRefreshRaw(ref.Raw+"x"))
	assert.Len(t, h1, 64) // hex-encoded SHA-256
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, a.Raw, b.Raw)
}
