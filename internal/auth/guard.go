package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/domain"
)

const principalKey = "auth_principal"

// SessionReader supplies the cached login snapshot for a principal.
type SessionReader interface {
	Get(ctx context.Context, email string) (*domain.SessionSnapshot, error)
}

// Authenticator resolves the caller behind a request. Production wiring uses
// TokenAuthenticator; test harnesses may substitute HarnessAuthenticator at
// construction time. The guard itself never inspects credentials.
type Authenticator interface {
	Authenticate(c *fiber.Ctx) (*domain.SessionSnapshot, error)
}

// TokenAuthenticator verifies a bearer access token and resolves the session
// snapshot for its subject. A cache miss is a hard failure: the caller must
// log in again, the durable store is never consulted here.
type TokenAuthenticator struct {
	tokens   *TokenService
	sessions SessionReader
}

// NewTokenAuthenticator constructs the production authenticator.
func NewTokenAuthenticator(tokens *TokenService, sessions SessionReader) *TokenAuthenticator {
	return &TokenAuthenticator{tokens: tokens, sessions: sessions}
}

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(c *fiber.Ctx) (*domain.SessionSnapshot, error) {
	credential, err := bearerCredential(c)
	if err != nil {
		return nil, err
	}

	claims, err := a.tokens.Verify(TokenAccess, credential)
	if err != nil {
		return nil, err
	}

	snapshot, err := a.sessions.Get(c.UserContext(), claims.Subject)
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// harnessTokenPrefix marks the reserved credential format
// "test-token:<perm1,perm2,...>" accepted only by HarnessAuthenticator.
const harnessTokenPrefix = "test-token:"

// HarnessAuthenticator accepts the reserved inline-permission credential used
// by integration tests. It never touches the token service or the session
// cache and must not be wired into production construction.
type HarnessAuthenticator struct{}

// Authenticate implements Authenticator.
func (HarnessAuthenticator) Authenticate(c *fiber.Ctx) (*domain.SessionSnapshot, error) {
	credential, err := bearerCredential(c)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(credential, harnessTokenPrefix) {
		return nil, domain.ErrUnauthenticated
	}

	var perms []string
	for _, p := range strings.Split(strings.TrimPrefix(credential, harnessTokenPrefix), ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return &domain.SessionSnapshot{
		Email:    "harness@localhost",
		FullName: "test harness",
		Role:     domain.RoleSnapshot{Name: "harness", Permissions: perms},
	}, nil
}

func bearerCredential(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", domain.ErrUnauthenticated
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrUnauthenticated
	}
	return parts[1], nil
}

// Guard gates protected routes. Each route declares the permission names it
// requires; access needs every one of them (AND semantics, no partial mode).
type Guard struct {
	authn Authenticator
}

// NewGuard constructs a guard around the given authentication strategy.
func NewGuard(authn Authenticator) *Guard {
	return &Guard{authn: authn}
}

// RequirePermissions returns a handler that authenticates the caller and
// checks that its permission set covers every required permission. Failures
// short-circuit: authentication problems yield 401, missing permissions 403.
func (g *Guard) RequirePermissions(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot, err := g.authn.Authenticate(c)
		if err != nil {
			return err
		}
		if !snapshot.HasPermissions(required) {
			return domain.ErrForbidden
		}
		c.Locals(principalKey, snapshot)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated snapshot.
func PrincipalFromContext(c *fiber.Ctx) (*domain.SessionSnapshot, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	snapshot, ok := val.(*domain.SessionSnapshot)
	return snapshot, ok
}
