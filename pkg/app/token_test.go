package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(expiry time.Duration) TokenManager {
	return NewTokenManager(TokenConfig{
		SecretKey: "unit-test-secret",
		Expiry:    expiry,
	})
}

func TestTokenGenerateAndParse(t *testing.T) {
	tm := newTestManager(time.Hour)

	token, err := tm.Generate(42, "alice", "10.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "10.0.0.1", claims.IP)
	assert.Equal(t, DefaultTokenIssuer, claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	tm := newTestManager(-time.Minute)

	token, err := tm.Generate(1, "bob", "127.0.0.1")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := newTestManager(time.Hour)
	other := NewTokenManager(TokenConfig{SecretKey: "another-secret"})

	token, err := tm.Generate(7, "carol", "127.0.0.1")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestShareTokenRoundTrip(t *testing.T) {
	tm := newTestManager(time.Hour)

	token, err := tm.GenerateShare(3, 9, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ParseShare(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.ShareID)
	assert.Equal(t, int64(9), claims.NotebookID)
}

func TestShareTokenIsNotUserToken(t *testing.T) {
	tm := newTestManager(time.Hour)

	token, err := tm.GenerateShare(3, 9, 0)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}
