package authenticator

import (
	"testing"
	"time"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	auth, err := New(&config.Config{
		JWT_SECRET:      "test-secret",
		JWT_ACCESS_TTL:  5 * time.Minute,
		JWT_REFRESH_TTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return auth
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(&config.Config{})
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	auth := newTestAuthenticator(t)

	pair, err := auth.IssuePair(42)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := auth.VerifyAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	auth := newTestAuthenticator(t)

	pair, err := auth.IssuePair(7)
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = auth.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := auth.Refresh(pair.Refresh)
	require.NoError(t, err)

	claims, err := auth.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	auth := newTestAuthenticator(t)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.WithClock(func() time.Time { return issuedAt })

	pair, err := auth.IssuePair(1)
	require.NoError(t, err)

	auth.WithClock(func() time.Time { return issuedAt.Add(6 * time.Minute) })
	_, err = auth.VerifyAccessToken(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Refresh(pair.Refresh)
	assert.NoError(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	auth := newTestAuthenticator(t)
	pair, err := auth.IssuePair(1)
	require.NoError(t, err)

	other, err := New(&config.Config{JWT_SECRET: "other", JWT_ACCESS_TTL: time.Minute, JWT_REFRESH_TTL: time.Hour})
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
