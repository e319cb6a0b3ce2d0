package dto

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	ServiceID    string    `json:"service_id"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// UpdateBookingStatusRequest payload.
type UpdateBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

// BookingResponse exposes a booking enriched with service info.
type BookingResponse struct {
	ID           string               `json:"id"`
	ServiceID    string               `json:"service_id"`
	HomeOwnerID  string               `json:"homeowner_id"`
	Status       domain.BookingStatus `json:"status"`
	BookedAt     time.Time            `json:"booked_at"`
	ScheduledFor time.Time            `json:"scheduled_for"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	ServiceTitle string               `json:"service_title,omitempty"`
	ProviderName string               `json:"provider_name,omitempty"`
}

// NewBookingResponse maps a joined booking detail.
func NewBookingResponse(detail repository.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:           detail.Booking.ID,
		ServiceID:    detail.Booking.ServiceID,
		HomeOwnerID:  detail.Booking.HomeOwnerID,
		Status:       detail.Booking.Status,
		BookedAt:     detail.Booking.BookedAt,
		ScheduledFor: detail.Booking.ScheduledFor,
		CompletedAt:  detail.Booking.CompletedAt,
		ServiceTitle: detail.ServiceTitle,
		ProviderName: detail.ProviderName,
	}
}
