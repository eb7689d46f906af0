package domain

import "errors"

// Closed set of failure variants produced by the auth core. The HTTP layer
// maps each variant to a status code with errors.Is; nothing inspects error
// message text.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account not active")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("otp mismatch")
	ErrResetTokenInvalid  = errors.New("reset token invalid")
	ErrSessionNotFound    = errors.New("session expired or not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrSessionFinished    = errors.New("exam session already finished")
)
