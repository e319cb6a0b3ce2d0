package dto

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// SignInRequest payload for role-dispatched sign-in.
type SignInRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// AdminLoginRequest payload for the admin console login.
type AdminLoginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token             string      `json:"token"`
	TokenType         string      `json:"token_type"`
	ExpiresAt         time.Time   `json:"expires_at"`
	Role              domain.Role `json:"role"`
	UserID            string      `json:"user_id,omitempty"`
	IsPending         bool        `json:"is_pending,omitempty"`
	NeedsDocuments    bool        `json:"needs_documents,omitempty"`
	NeedsVerification bool        `json:"needs_verification,omitempty"`
	IsSuperAdmin      bool        `json:"is_super_admin,omitempty"`
	RedirectTo        string      `json:"redirect_to"`
}
