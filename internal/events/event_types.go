package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventOTPRequested           EventType = "otp_requested"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services. Email identifies the
// principal the event concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	FullName string `json:"fullname"`
}

// OTPRequestedPayload payload.
type OTPRequestedPayload struct {
	Code uint32 `json:"code"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Token string `json:"token"`
}
