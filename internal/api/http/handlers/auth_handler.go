package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/api/dto"
	"github.com/spec-kit/exam-service/internal/auth"
	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/service"
)

// AuthHandler exposes registration, verification, login and token endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return fiber.NewError(http.StatusBadRequest, "fullname, email, password required")
	}

	user, err := h.auth.Register(c.UserContext(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       user.ID,
				"fullname": user.FullName,
				"email":    user.Email,
			},
			"message": "verification code sent",
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"principal": dto.PrincipalResponse{
				Email:       result.Snapshot.Email,
				FullName:    result.Snapshot.FullName,
				Role:        result.Snapshot.Role.Name,
				Permissions: result.Snapshot.Role.Permissions,
			},
			"auth": dto.TokenPairResponse{
				AccessToken:      result.AccessToken,
				RefreshToken:     result.RefreshToken,
				AccessExpiresAt:  result.AccessExpiresAt,
				RefreshExpiresAt: result.RefreshExpiresAt,
			},
		},
	})
}

// SendOTP handles POST /auth/send-otp.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.SendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "verification code sent"}})
}

// VerifyEmail handles POST /auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.OTP == 0 {
		return fiber.NewError(http.StatusBadRequest, "email and otp required")
	}

	if err := h.auth.VerifyEmail(c.UserContext(), req.Email, req.OTP); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "email verified"}})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refresh_token required")
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TokenPairResponse{
			AccessToken:      pair.AccessToken,
			RefreshToken:     pair.RefreshToken,
			AccessExpiresAt:  pair.AccessExpiresAt,
			RefreshExpiresAt: pair.RefreshExpiresAt,
		},
	})
}

// Forgot handles POST /auth/forgot.
func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	var req dto.ForgotRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if _, err := h.auth.Forgot(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "reset instructions sent"}})
}

// NewPassword handles POST /auth/new-password.
func (h *AuthHandler) NewPassword(c *fiber.Ctx) error {
	var req dto.NewPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "token and password required")
	}

	if err := h.auth.NewPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// Logout handles POST /auth/logout (guarded).
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	if err := h.auth.Logout(c.UserContext(), principal.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// Me handles GET /api/me (guarded).
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.ErrUnauthenticated
	}
	return c.JSON(fiber.Map{
		"data": dto.PrincipalResponse{
			Email:       principal.Email,
			FullName:    principal.FullName,
			Role:        principal.Role.Name,
			Permissions: principal.Role.Permissions,
		},
	})
}
