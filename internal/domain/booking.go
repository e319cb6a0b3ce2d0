package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a homeowner's reservation of a service.
type Booking struct {
	ID           string
	ServiceID    string
	HomeOwnerID  string
	Status       BookingStatus
	BookedAt     time.Time
	ScheduledFor time.Time
	CompletedAt  *time.Time
}
