package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/dto"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/service"
)

// ServicesHandler exposes the service catalog.
type ServicesHandler struct {
	catalog *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalog *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{catalog: catalog}
}

// Create handles POST /services (verified provider only).
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Provider == nil || principal.User == nil {
		return fiber.NewError(http.StatusForbidden, "verified provider required")
	}

	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.catalog.CreateService(c.Context(), principal.Provider, principal.User.FullName, service.CreateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(created)})
}

// Update handles PATCH /services/:id (owning provider only).
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Provider == nil {
		return fiber.NewError(http.StatusForbidden, "verified provider required")
	}

	var req dto.UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.catalog.UpdateService(c.Context(), principal.Provider, c.Params("id"), service.UpdateServiceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageRef:    req.ImageRef,
		Active:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(updated)})
}

// List handles GET /services.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("skip", 0)

	services, err := h.catalog.ListServices(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponses(services)})
}

// Get handles GET /services/:id.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	found, err := h.catalog.GetService(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(found)})
}

// ListMine handles GET /provider/services.
func (h *ServicesHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Provider == nil {
		return fiber.NewError(http.StatusForbidden, "verified provider required")
	}

	services, err := h.catalog.ListProviderServices(c.Context(), principal.Provider)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponses(services)})
}

func serviceResponses(services []domain.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, dto.NewServiceResponse(&services[i]))
	}
	return responses
}
