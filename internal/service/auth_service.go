package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/exam-service/internal/auth"
	"github.com/spec-kit/exam-service/internal/config"
	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/events"
	"github.com/spec-kit/exam-service/internal/repository"
)

// defaultRoleName is assigned to newly registered users.
const defaultRoleName = "student"

// OTPStore is the one-time passcode cache used for email verification.
type OTPStore interface {
	Store(ctx context.Context, email string, code uint32) error
	Get(ctx context.Context, email string) (uint32, error)
	Delete(ctx context.Context, email string) error
}

// SessionStore is the logged-in principal snapshot cache.
type SessionStore interface {
	Put(ctx context.Context, snapshot *domain.SessionSnapshot) error
	Get(ctx context.Context, email string) (*domain.SessionSnapshot, error)
	Delete(ctx context.Context, email string) error
}

// LoginResult carries everything a successful login returns.
type LoginResult struct {
	User             *domain.User
	Snapshot         *domain.SessionSnapshot
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenPair is the product of a refresh rotation.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthService coordinates registration, verification, login and token flows.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokens     *auth.TokenService
	otps       OTPStore
	sessions   SessionStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	RoleRepo     repository.RoleRepository
	TokenService *auth.TokenService
	OTPStore     OTPStore
	SessionStore SessionStore
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokens:     deps.TokenService,
		otps:       deps.OTPStore,
		sessions:   deps.SessionStore,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates an inactive account and issues its verification passcode.
func (s *AuthService) Register(ctx context.Context, fullname, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, defaultRoleName)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     fullname,
		Email:        email,
		PasswordHash: hash,
		Active:       false,
		RoleID:       role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, email, events.UserRegisteredPayload{FullName: fullname})

	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}
	return user, nil
}

// SendOTP regenerates the passcode for an existing principal, overwriting any
// previous one.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.issueOTP(ctx, email)
}

func (s *AuthService) issueOTP(ctx context.Context, email string) error {
	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.otps.Store(ctx, email, code); err != nil {
		return err
	}
	s.publish(ctx, events.EventOTPRequested, email, events.OTPRequestedPayload{Code: code})
	return nil
}

// VerifyEmail compares the submitted passcode against the cached one and
// activates the account on match. The passcode is deleted on match, mismatch
// and expiry alike: one guess per issued code.
func (s *AuthService) VerifyEmail(ctx context.Context, email string, otp uint32) error {
	code, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrOTPExpired) {
			_ = s.otps.Delete(ctx, email)
		}
		return err
	}

	if code != otp {
		_ = s.otps.Delete(ctx, email)
		return domain.ErrOTPMismatch
	}

	if err := s.users.Activate(ctx, email); err != nil {
		return err
	}
	return s.otps.Delete(ctx, email)
}

// Login authenticates the principal, issues an access/refresh pair and
// populates the session snapshot. Concurrent logins for the same principal
// race on the snapshot write; last writer wins.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInactiveAccount
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, accessExp, err := s.tokens.Issue(auth.TokenAccess, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.Issue(auth.TokenRefresh, user.Email)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.SessionSnapshot{
		Email:    user.Email,
		FullName: user.FullName,
		Role: domain.RoleSnapshot{
			Name:        role.Name,
			Permissions: role.PermissionNames(),
		},
	}
	if err := s.sessions.Put(ctx, snapshot); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:             user,
		Snapshot:         snapshot,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh rotates a valid refresh token into a new access/refresh pair. There
// is no revocation list: the old refresh token stays usable until its natural
// expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(auth.TokenRefresh, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, accessExp, err := s.tokens.Issue(auth.TokenAccess, claims.Subject)
	if err != nil {
		return nil, err
	}
	newRefresh, refreshExp, err := s.tokens.Issue(auth.TokenRefresh, claims.Subject)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     newRefresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Forgot issues a password reset token for a known principal and dispatches
// the reset mail event.
func (s *AuthService) Forgot(ctx context.Context, email string) (string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	token, _, err := s.tokens.Issue(auth.TokenReset, email)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.EventPasswordResetRequested, email, events.PasswordResetRequestedPayload{Token: token})
	return token, nil
}

// NewPassword verifies the reset token and updates the principal's password.
func (s *AuthService) NewPassword(ctx context.Context, token, password string) error {
	claims, err := s.tokens.Verify(auth.TokenReset, token)
	if err != nil {
		return domain.ErrResetTokenInvalid
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, hash)
}

// Logout deletes the session snapshot. Logging out an already-ended session
// is not an error.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	if err := s.sessions.Delete(ctx, email); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
