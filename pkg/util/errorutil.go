package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/exam-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// statusFor resolves a sentinel error to its code and HTTP status. The
// mapping is the single place where domain variants become status codes.
func statusFor(err error) (string, string, int, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrSessionNotFound):
		return "UNAUTHORIZED", err.Error(), http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return "FORBIDDEN", err.Error(), http.StatusForbidden, true
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOTPNotFound),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrOTPMismatch),
		errors.Is(err, domain.ErrResetTokenInvalid),
		errors.Is(err, domain.ErrSessionFinished):
		return "VALIDATION_FAILED", err.Error(), http.StatusBadRequest, true
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, pgx.ErrNoRows):
		return "NOT_FOUND", "resource not found", http.StatusNotFound, true
	}
	return "", "", 0, false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if code, msg, status, ok := statusFor(err); ok {
		return &DomainError{Code: code, Message: msg, HTTPStatus: status, Err: err}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       codeForStatus(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
			Err:        err,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "ERROR"
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

