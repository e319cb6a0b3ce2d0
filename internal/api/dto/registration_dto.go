package dto

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// RegisterHomeownerRequest payload; homeowners are created immediately.
type RegisterHomeownerRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// RejectRegistrationRequest payload for the admin rejection endpoint.
type RejectRegistrationRequest struct {
	Reason string `json:"reason"`
}

// RegistrationRequestResponse exposes an application without its
// password hash.
type RegistrationRequestResponse struct {
	ID              string                    `json:"id"`
	Email           string                    `json:"email"`
	FullName        string                    `json:"full_name"`
	PhoneNumber     *string                   `json:"phone_number,omitempty"`
	Address         *string                   `json:"address,omitempty"`
	YearsExperience *int                      `json:"years_experience,omitempty"`
	Status          domain.RegistrationStatus `json:"status"`
	NeedsDocuments  bool                      `json:"needs_documents"`
	RejectionReason *string                   `json:"rejection_reason,omitempty"`
	RequestedAt     time.Time                 `json:"requested_at"`
	ProcessedAt     *time.Time                `json:"processed_at,omitempty"`
	ProcessedBy     *string                   `json:"processed_by,omitempty"`
}

// NewRegistrationRequestResponse maps the domain request.
func NewRegistrationRequestResponse(request *domain.ProviderRegistrationRequest) RegistrationRequestResponse {
	return RegistrationRequestResponse{
		ID:              request.ID,
		Email:           request.Email,
		FullName:        request.FullName,
		PhoneNumber:     request.PhoneNumber,
		Address:         request.Address,
		YearsExperience: request.YearsExperience,
		Status:          request.Status,
		NeedsDocuments:  request.NeedsDocuments(),
		RejectionReason: request.RejectionReason,
		RequestedAt:     request.RequestedAt,
		ProcessedAt:     request.ProcessedAt,
		ProcessedBy:     request.ProcessedBy,
	}
}
