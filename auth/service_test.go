package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/blogql-go/auth"
	"github.com/user/blogql-go/config"
)

func newService(d time.Duration) *auth.Service {
	return auth.NewService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: d,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	svc := newService(time.Hour)

	hash, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, svc.VerifyPassword("hunter22", hash))
	assert.False(t, svc.VerifyPassword("hunter23", hash))
	assert.False(t, svc.VerifyPassword("", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	svc := newService(time.Hour)

	h1, err := svc.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := svc.HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newService(time.Hour)

	token, err := svc.IssueToken("64a1f0c2e1b2c3d4e5f60718", "user@example.com")
	require.NoError(t, err)

	verdict := svc.VerifyToken(token)
	assert.True(t, verdict.IsAuth)
	assert.Equal(t, "64a1f0c2e1b2c3d4e5f60718", verdict.UserID)
	assert.Equal(t, "user@example.com", verdict.Email)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newService(time.Hour)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		verdict := svc.VerifyToken(token)
		assert.False(t, verdict.IsAuth, "token %q should not verify", token)
		assert.Empty(t, verdict.UserID)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := newService(time.Hour)
	verifier := auth.NewService(config.AuthConfig{JWTSecret: "other-secret", TokenDuration: time.Hour})

	token, err := issuer.IssueToken("64a1f0c2e1b2c3d4e5f60718", "user@example.com")
	require.NoError(t, err)

	assert.False(t, verifier.VerifyToken(token).IsAuth)
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := newService(-time.Minute)

	token, err := svc.IssueToken("64a1f0c2e1b2c3d4e5f60718", "user@example.com")
	require.NoError(t, err)

	assert.False(t, svc.VerifyToken(token).IsAuth)
}
