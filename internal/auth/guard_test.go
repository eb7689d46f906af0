package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-service/internal/domain"
	apperrors "github.com/spec-kit/exam-service/pkg/util"
)

type fakeSessions map[string]*domain.SessionSnapshot

func (f fakeSessions) Get(_ context.Context, email string) (*domain.SessionSnapshot, error) {
	snapshot, ok := f[email]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snapshot, nil
}

func newGuardApp(guard *Guard, required ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	app.Get("/protected", guard.RequirePermissions(required...), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()

	req := httptest.NewRequest("GET", "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestGuardMissingHeader(t *testing.T) {
	t.Parallel()

	guard := NewGuard(NewTokenAuthenticator(NewTokenService(testAuthConfig()), fakeSessions{}))
	app := newGuardApp(guard, "tests:read")

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, ""))
	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "Basic abc"))
}

func TestGuardInvalidToken(t *testing.T) {
	t.Parallel()

	guard := NewGuard(NewTokenAuthenticator(NewTokenService(testAuthConfig()), fakeSessions{}))
	app := newGuardApp(guard, "tests:read")

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "Bearer garbage"))
}

func TestGuardSessionMissDenies(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService(testAuthConfig())
	guard := NewGuard(NewTokenAuthenticator(tokens, fakeSessions{}))
	app := newGuardApp(guard, "tests:read")

	// Well-formed, unexpired, correctly signed token whose subject has no
	// session snapshot must be denied, never re-derived from the user store.
	token, _, err := tokens.Issue(TokenAccess, "user@example.com")
	require.NoError(t, err)

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "Bearer "+token))
}

func TestGuardPermissionANDSemantics(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService(testAuthConfig())
	sessions := fakeSessions{
		"user@example.com": {
			Email:    "user@example.com",
			FullName: "Test User",
			Role:     domain.RoleSnapshot{Name: "student", Permissions: []string{"a", "b"}},
		},
	}
	guard := NewGuard(NewTokenAuthenticator(tokens, sessions))

	token, _, err := tokens.Issue(TokenAccess, "user@example.com")
	require.NoError(t, err)

	cases := []struct {
		name     string
		required []string
		want     int
	}{
		{"exact set", []string{"a", "b"}, fiber.StatusOK},
		{"subset", []string{"a"}, fiber.StatusOK},
		{"empty requirement", nil, fiber.StatusOK},
		{"one missing denies all", []string{"a", "b", "c"}, fiber.StatusForbidden},
		{"disjoint", []string{"c"}, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newGuardApp(guard, tc.required...)
			require.Equal(t, tc.want, doRequest(t, app, "Bearer "+token))
		})
	}
}

func TestGuardRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService(testAuthConfig())
	sessions := fakeSessions{
		"user@example.com": {
			Email: "user@example.com",
			Role:  domain.RoleSnapshot{Name: "student", Permissions: []string{"a"}},
		},
	}
	guard := NewGuard(NewTokenAuthenticator(tokens, sessions))
	app := newGuardApp(guard, "a")

	refreshToken, _, err := tokens.Issue(TokenRefresh, "user@example.com")
	require.NoError(t, err)

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "Bearer "+refreshToken))
}

func TestHarnessAuthenticator(t *testing.T) {
	t.Parallel()

	guard := NewGuard(HarnessAuthenticator{})

	t.Run("inline permissions satisfy requirement", func(t *testing.T) {
		app := newGuardApp(guard, "tests:read", "tests:write")
		status := doRequest(t, app, "Bearer test-token:tests:read,tests:write")
		require.Equal(t, fiber.StatusOK, status)
	})

	t.Run("missing permission denied", func(t *testing.T) {
		app := newGuardApp(guard, "tests:read", "tests:write")
		status := doRequest(t, app, "Bearer test-token:tests:read")
		require.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("non harness credential rejected", func(t *testing.T) {
		app := newGuardApp(guard, "tests:read")
		status := doRequest(t, app, "Bearer some-real-looking-token")
		require.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestProductionAuthenticatorIgnoresHarnessTokens(t *testing.T) {
	t.Parallel()

	guard := NewGuard(NewTokenAuthenticator(NewTokenService(testAuthConfig()), fakeSessions{}))
	app := newGuardApp(guard, "tests:read")

	// The reserved format must never pass the production strategy.
	status := doRequest(t, app, "Bearer test-token:tests:read")
	require.Equal(t, fiber.StatusUnauthorized, status)
}
