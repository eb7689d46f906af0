package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTPRequest payload for passcode resend.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyEmailRequest payload for account activation.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   uint32 `json:"otp"`
}

// RefreshRequest payload for token rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotRequest payload for password reset initiation.
type ForgotRequest struct {
	Email string `json:"email"`
}

// NewPasswordRequest payload for password reset completion.
type NewPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// TokenPairResponse standard response carrying an access/refresh pair.
type TokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// PrincipalResponse is the logged-in principal representation.
type PrincipalResponse struct {
	Email       string   `json:"email"`
	FullName    string   `json:"fullname"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
