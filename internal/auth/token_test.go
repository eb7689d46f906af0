package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-service/internal/config"
	"github.com/spec-kit/exam-service/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:           "access-secret",
		RefreshSecret:          "refresh-secret",
		ResetSecret:            "reset-secret",
		AccessTokenTTLMinutes:  15,
		RefreshTokenTTLMinutes: 24 * 60,
		ResetTokenTTLMinutes:   15,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ts := NewTokenService(testAuthConfig())

	for _, kind := range []TokenKind{TokenAccess, TokenRefresh, TokenReset} {
		t.Run(string(kind), func(t *testing.T) {
			token, expiresAt, err := ts.Issue(kind, "user@example.com")
			require.NoError(t, err)
			require.NotEmpty(t, token)
			require.True(t, expiresAt.After(time.Now()))

			claims, err := ts.Verify(kind, token)
			require.NoError(t, err)
			require.Equal(t, "user@example.com", claims.Subject)
		})
	}
}

func TestTokenCrossKindRejection(t *testing.T) {
	t.Parallel()

	ts := NewTokenService(testAuthConfig())

	refreshToken, _, err := ts.Issue(TokenRefresh, "user@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(TokenAccess, refreshToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	accessToken, _, err := ts.Issue(TokenAccess, "user@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(TokenRefresh, accessToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = ts.Verify(TokenReset, accessToken)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	ts := &TokenService{
		kinds: map[TokenKind]kindConfig{
			TokenAccess: {secret: []byte("access-secret"), ttl: -time.Minute},
		},
	}

	token, _, err := ts.Issue(TokenAccess, "user@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(TokenAccess, token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	t.Parallel()

	ts := NewTokenService(testAuthConfig())

	_, err := ts.Verify(TokenAccess, "not-a-token")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	t.Parallel()

	ts := NewTokenService(testAuthConfig())

	other := testAuthConfig()
	other.AccessSecret = "different-secret"
	forged, _, err := NewTokenService(other).Issue(TokenAccess, "user@example.com")
	require.NoError(t, err)

	_, err = ts.Verify(TokenAccess, forged)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenUnknownKind(t *testing.T) {
	t.Parallel()

	ts := NewTokenService(testAuthConfig())

	_, _, err := ts.Issue(TokenKind("bogus"), "user@example.com")
	require.Error(t, err)

	_, err = ts.Verify(TokenKind("bogus"), "whatever")
	require.Error(t, err)
}
