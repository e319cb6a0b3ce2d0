package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/dto"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
	"github.com/spec-kit/homehelp-service/internal/service"
)

// BookingsHandler exposes booking operations for homeowners and providers.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// Create handles POST /bookings (homeowner only).
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.HomeOwner == nil {
		return fiber.NewError(http.StatusForbidden, "homeowner account required")
	}

	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.bookings.CreateBooking(c.Context(), principal.HomeOwner, req.ServiceID, req.ScheduledFor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(*detail)})
}

// List handles GET /bookings, dispatching on the caller's role.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	status, err := bookingStatusQuery(c)
	if err != nil {
		return err
	}

	var details []repository.BookingDetail
	switch {
	case principal.HomeOwner != nil:
		details, err = h.bookings.ListHomeOwnerBookings(c.Context(), principal.HomeOwner, status)
	case principal.Provider != nil:
		details, err = h.bookings.ListProviderBookings(c.Context(), principal.Provider, status)
	default:
		return fiber.NewError(http.StatusForbidden, "homeowner or provider account required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponses(details)})
}

// UpdateStatus handles PATCH /bookings/:id/status.
func (h *BookingsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var (
		booking *domain.Booking
		err     error
	)
	switch {
	case principal.HomeOwner != nil:
		booking, err = h.bookings.UpdateStatusAsHomeOwner(c.Context(), principal.HomeOwner, c.Params("id"), req.Status)
	case principal.Provider != nil:
		booking, err = h.bookings.UpdateStatusAsProvider(c.Context(), principal.Provider, c.Params("id"), req.Status)
	default:
		return fiber.NewError(http.StatusForbidden, "homeowner or provider account required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(repository.BookingDetail{Booking: *booking})})
}

func bookingStatusQuery(c *fiber.Ctx) (*domain.BookingStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status := domain.BookingStatus(raw)
	if !status.Valid() {
		return nil, fiber.NewError(http.StatusBadRequest, "unknown booking status")
	}
	return &status, nil
}

func bookingResponses(details []repository.BookingDetail) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, 0, len(details))
	for _, detail := range details {
		responses = append(responses, dto.NewBookingResponse(detail))
	}
	return responses
}
