package dto

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/repository"
)

// CreateAdminRequest payload; super-admin only.
type CreateAdminRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// AdminResponse exposes an admin account.
type AdminResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewAdminResponse maps a joined admin account.
func NewAdminResponse(acct repository.AdminAccount) AdminResponse {
	return AdminResponse{
		ID:           acct.Admin.ID,
		UserID:       acct.Admin.UserID,
		Email:        acct.Email,
		FullName:     acct.FullName,
		IsSuperAdmin: acct.Admin.SuperAdmin,
		CreatedAt:    acct.CreatedAt,
	}
}

// ProviderResponse exposes a provider account for admin oversight.
type ProviderResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	YearsExperience *int      `json:"years_experience,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewProviderResponse maps a joined provider account.
func NewProviderResponse(acct repository.ProviderAccount) ProviderResponse {
	return ProviderResponse{
		ID:              acct.Provider.ID,
		FullName:        acct.FullName,
		Email:           acct.Email,
		PhoneNumber:     acct.Phone,
		YearsExperience: acct.Provider.YearsExperience,
		IsVerified:      acct.Provider.Verified,
		CreatedAt:       acct.CreatedAt,
	}
}
