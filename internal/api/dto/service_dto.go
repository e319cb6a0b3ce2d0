package dto

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// CreateServiceRequest payload for a new listing.
type CreateServiceRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	ImageRef    *string `json:"image,omitempty"`
}

// UpdateServiceRequest payload; nil fields are left untouched.
type UpdateServiceRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	ImageRef    *string `json:"image,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ServiceResponse exposes a listing.
type ServiceResponse struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"provider_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	ImageRef     *string   `json:"image,omitempty"`
	Rating       int       `json:"rating"`
	ProviderName string    `json:"provider_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewServiceResponse maps a domain service.
func NewServiceResponse(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:           service.ID,
		ProviderID:   service.ProviderID,
		Title:        service.Title,
		Description:  service.Description,
		Price:        service.Price,
		ImageRef:     service.ImageRef,
		Rating:       service.Rating,
		ProviderName: service.ProviderName,
		IsActive:     service.Active,
		CreatedAt:    service.CreatedAt,
	}
}
