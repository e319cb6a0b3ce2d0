package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/events"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// BookingService manages homeowner bookings against active services.
type BookingService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBookingService builds the service.
func NewBookingService(store repository.Store, dispatcher events.Dispatcher, logger *zap.Logger) *BookingService {
	return &BookingService{store: store, dispatcher: dispatcher, logger: logger}
}

// CreateBooking books an active service for the homeowner.
func (s *BookingService) CreateBooking(ctx context.Context, owner *domain.HomeOwner, serviceID string, scheduledFor time.Time) (*repository.BookingDetail, error) {
	service, err := s.store.Services().GetByID(ctx, serviceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("service", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !service.Active {
		return nil, apperrors.NewNotFound("service", nil)
	}

	booking := &domain.Booking{
		ServiceID:    serviceID,
		HomeOwnerID:  owner.ID,
		Status:       domain.BookingPending,
		ScheduledFor: scheduledFor,
	}
	if err := s.store.Bookings().Create(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.EventBookingCreated, booking.ID,
		events.Actor{Role: domain.RoleHomeowner, UserID: &owner.UserID},
		events.BookingCreatedPayload{ServiceID: serviceID, ServiceTitle: service.Title, ScheduledFor: scheduledFor})

	return &repository.BookingDetail{
		Booking:      *booking,
		ServiceTitle: service.Title,
		ProviderName: service.ProviderName,
	}, nil
}

// ListHomeOwnerBookings returns the homeowner's bookings.
func (s *BookingService) ListHomeOwnerBookings(ctx context.Context, owner *domain.HomeOwner, status *domain.BookingStatus) ([]repository.BookingDetail, error) {
	details, err := s.store.Bookings().ListByHomeOwner(ctx, owner.ID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return details, nil
}

// ListProviderBookings returns bookings against the provider's services.
func (s *BookingService) ListProviderBookings(ctx context.Context, provider *domain.ServiceProvider, status *domain.BookingStatus) ([]repository.BookingDetail, error) {
	details, err := s.store.Bookings().ListByProvider(ctx, provider.ID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return details, nil
}

// UpdateStatusAsHomeOwner lets a homeowner cancel their own booking.
// Any other transition is reserved for the provider.
func (s *BookingService) UpdateStatusAsHomeOwner(ctx context.Context, owner *domain.HomeOwner, bookingID string, newStatus domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HomeOwnerID != owner.ID {
		return nil, apperrors.NewForbidden("you can only update your own bookings")
	}
	if newStatus != domain.BookingCancelled {
		return nil, apperrors.NewForbidden("homeowners can only cancel bookings")
	}
	return s.applyStatus(ctx, booking, newStatus, events.Actor{Role: domain.RoleHomeowner, UserID: &owner.UserID})
}

// UpdateStatusAsProvider lets a provider confirm or complete bookings
// against its own services. Completing stamps the completion time.
func (s *BookingService) UpdateStatusAsProvider(ctx context.Context, provider *domain.ServiceProvider, bookingID string, newStatus domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	service, err := s.store.Services().GetByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if service.ProviderID != provider.ID {
		return nil, apperrors.NewForbidden("you can only update bookings for your services")
	}
	return s.applyStatus(ctx, booking, newStatus, events.Actor{Role: domain.RoleServiceProvider, UserID: &provider.UserID})
}

func (s *BookingService) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return booking, nil
}

func (s *BookingService) applyStatus(ctx context.Context, booking *domain.Booking, newStatus domain.BookingStatus, actor events.Actor) (*domain.Booking, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown booking status", map[string]any{"status": newStatus})
	}

	oldStatus := booking.Status
	booking.Status = newStatus
	if newStatus == domain.BookingCompleted {
		now := time.Now()
		booking.CompletedAt = &now
	}

	if err := s.store.Bookings().UpdateStatus(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.EventBookingStatusChanged, booking.ID, actor,
		events.BookingStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus})
	return booking, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType events.EventType, subjectID string, actor events.Actor, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
