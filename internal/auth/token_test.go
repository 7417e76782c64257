package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)

	token, expiresAt, err := issuer.Issue("u1", "ann@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	token, _, err := issuer.Issue("u1", "ann@x.com")
	require.NoError(t, err)

	other := NewTokenIssuer([]byte("different-secret"), time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue("u1", "ann@x.com")
	require.NoError(t, err)

	verifier := NewTokenIssuer([]byte("test-secret"), time.Hour)
	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	_, err := issuer.Parse("not-a-token")
	assert.Error(t, err)
}
