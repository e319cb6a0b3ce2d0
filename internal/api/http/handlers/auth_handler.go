package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/dto"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/service"
)

// AuthHandler exposes sign-in and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "email, password and role required")
	}

	result, err := h.auth.SignIn(c.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.AdminLogin(c.Context(), req.Email, req.Password, req.IsSuperAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password required")
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// Validate handles GET /auth/validate.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	payload := fiber.Map{
		"valid": true,
		"email": principal.Email(),
		"role":  principal.Role(),
	}
	if principal.User != nil {
		payload["user_id"] = principal.User.ID
	}
	if principal.Request != nil {
		payload["request_id"] = principal.Request.ID
		payload["is_pending"] = true
	}
	return c.JSON(fiber.Map{"data": payload})
}

func authResponse(result *service.SignInResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:             result.Token,
		TokenType:         "bearer",
		ExpiresAt:         result.ExpiresAt,
		Role:              result.Role,
		UserID:            result.UserID,
		IsPending:         result.Pending,
		NeedsDocuments:    result.NeedsDocuments,
		NeedsVerification: result.NeedsVerification,
		IsSuperAdmin:      result.SuperAdmin,
		RedirectTo:        result.RedirectTo,
	}
}
