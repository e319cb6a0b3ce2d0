package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/events"
	"github.com/spec-kit/homehelp-service/internal/service"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

type bookingFixture struct {
	store    *memStore
	svc      *service.BookingService
	owner    *domain.HomeOwner
	provider *domain.ServiceProvider
	listing  *domain.Service
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	store := newMemStore()
	provider := approvedProvider(t, store, "pat@example.com")

	user := registerHomeowner(t, store, "olive@example.com", "pw")
	owner, err := store.Profiles().GetHomeOwnerByUserID(context.Background(), user.ID)
	require.NoError(t, err)

	listing, err := service.NewCatalogService(store).CreateService(context.Background(), provider, "Pat Provider", service.CreateServiceInput{
		Title: "Gutter cleaning",
		Price: 9500,
	})
	require.NoError(t, err)

	return &bookingFixture{
		store:    store,
		svc:      service.NewBookingService(store, events.NewInMemoryDispatcher(), zap.NewNop()),
		owner:    owner,
		provider: provider,
		listing:  listing,
	}
}

func (f *bookingFixture) book(t *testing.T) domain.Booking {
	t.Helper()
	detail, err := f.svc.CreateBooking(context.Background(), f.owner, f.listing.ID, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	return detail.Booking
}

func TestCreateBooking(t *testing.T) {
	t.Run("books an active service", func(t *testing.T) {
		f := newBookingFixture(t)

		detail, err := f.svc.CreateBooking(context.Background(), f.owner, f.listing.ID, time.Now().Add(48*time.Hour))
		require.NoError(t, err)

		assert.Equal(t, domain.BookingPending, detail.Booking.Status)
		assert.Equal(t, f.owner.ID, detail.Booking.HomeOwnerID)
		assert.Equal(t, "Gutter cleaning", detail.ServiceTitle)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.CreateBooking(context.Background(), f.owner, "missing", time.Now())
		assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
	})

	t.Run("inactive listings are not bookable", func(t *testing.T) {
		f := newBookingFixture(t)
		inactive := false
		_, err := service.NewCatalogService(f.store).UpdateService(context.Background(), f.provider, f.listing.ID, service.UpdateServiceInput{Active: &inactive})
		require.NoError(t, err)

		_, err = f.svc.CreateBooking(context.Background(), f.owner, f.listing.ID, time.Now())
		assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	t.Run("homeowner may only cancel", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t)

		_, err := f.svc.UpdateStatusAsHomeOwner(context.Background(), f.owner, booking.ID, domain.BookingConfirmed)
		assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))

		updated, err := f.svc.UpdateStatusAsHomeOwner(context.Background(), f.owner, booking.ID, domain.BookingCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, updated.Status)
	})

	t.Run("homeowner cannot touch someone else's booking", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t)
		stranger := &domain.HomeOwner{ID: "other-owner"}

		_, err := f.svc.UpdateStatusAsHomeOwner(context.Background(), stranger, booking.ID, domain.BookingCancelled)
		assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
	})

	t.Run("provider confirms and completes", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t)

		confirmed, err := f.svc.UpdateStatusAsProvider(context.Background(), f.provider, booking.ID, domain.BookingConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, confirmed.Status)
		assert.Nil(t, confirmed.CompletedAt)

		completed, err := f.svc.UpdateStatusAsProvider(context.Background(), f.provider, booking.ID, domain.BookingCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCompleted, completed.Status)
		assert.NotNil(t, completed.CompletedAt)
	})

	t.Run("provider cannot touch bookings on foreign services", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t)
		stranger := &domain.ServiceProvider{ID: "other-provider"}

		_, err := f.svc.UpdateStatusAsProvider(context.Background(), stranger, booking.ID, domain.BookingConfirmed)
		assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := f.book(t)

		_, err := f.svc.UpdateStatusAsProvider(context.Background(), f.provider, booking.ID, domain.BookingStatus("shredded"))
		assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))
	})
}

func TestListBookings(t *testing.T) {
	f := newBookingFixture(t)
	first := f.book(t)
	f.book(t)
	_, err := f.svc.UpdateStatusAsProvider(context.Background(), f.provider, first.ID, domain.BookingConfirmed)
	require.NoError(t, err)

	t.Run("by homeowner", func(t *testing.T) {
		details, err := f.svc.ListHomeOwnerBookings(context.Background(), f.owner, nil)
		require.NoError(t, err)
		assert.Len(t, details, 2)
	})

	t.Run("by provider with status filter", func(t *testing.T) {
		confirmed := domain.BookingConfirmed
		details, err := f.svc.ListProviderBookings(context.Background(), f.provider, &confirmed)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, first.ID, details[0].Booking.ID)
	})
}
