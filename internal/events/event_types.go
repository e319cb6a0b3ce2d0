package events

import (
	"time"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationSubmitted EventType = "registration_submitted"
	EventDocumentsUploaded     EventType = "documents_uploaded"
	EventRegistrationApproved  EventType = "registration_approved"
	EventRegistrationRejected  EventType = "registration_rejected"
	EventBookingCreated        EventType = "booking_created"
	EventBookingStatusChanged  EventType = "booking_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.Role `json:"role,omitempty"`
	UserID *string     `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegistrationSubmittedPayload payload.
type RegistrationSubmittedPayload struct {
	Email          string `json:"email"`
	NeedsDocuments bool   `json:"needs_documents"`
}

// RegistrationApprovedPayload payload.
type RegistrationApprovedPayload struct {
	Email      string `json:"email"`
	UserID     string `json:"user_id"`
	ProviderID string `json:"provider_id"`
}

// RegistrationRejectedPayload payload.
type RegistrationRejectedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ServiceID    string    `json:"service_id"`
	ServiceTitle string    `json:"service_title"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}
