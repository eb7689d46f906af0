package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/exam-service/internal/config"
	"github.com/spec-kit/exam-service/internal/domain"
)

// TokenKind selects the signing secret and lifetime for a token.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenReset   TokenKind = "reset"
)

// Claims is the payload shared by all three token kinds. Only the secret and
// the lifetime differ per kind.
type Claims struct {
	jwt.RegisteredClaims
}

type kindConfig struct {
	secret []byte
	ttl    time.Duration
}

// TokenService signs and verifies access, refresh and reset tokens. Each kind
// has an independent secret so one leaked secret cannot forge the others.
// The service holds no state beyond its configuration.
type TokenService struct {
	kinds map[TokenKind]kindConfig
}

// NewTokenService builds the service from auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		kinds: map[TokenKind]kindConfig{
			TokenAccess:  {secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTokenTTL()},
			TokenRefresh: {secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTokenTTL()},
			TokenReset:   {secret: []byte(cfg.ResetSecret), ttl: cfg.ResetTokenTTL()},
		},
	}
}

// Issue signs a token of the given kind for the subject.
func (ts *TokenService) Issue(kind TokenKind, subject string) (string, time.Time, error) {
	kc, ok := ts.kinds[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}

	now := time.Now()
	expiresAt := now.Add(kc.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(kc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates a token against the kind's secret and returns its claims.
// Expired, malformed and wrongly signed tokens all fail with ErrTokenInvalid.
func (ts *TokenService) Verify(kind TokenKind, tokenStr string) (*Claims, error) {
	kc, ok := ts.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return kc.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
