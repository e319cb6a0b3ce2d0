package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/dto"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/service"
)

// AdminHandler exposes admin management and approval endpoints.
type AdminHandler struct {
	admins        *service.AdminService
	registrations *service.RegistrationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admins *service.AdminService, registrations *service.RegistrationService) *AdminHandler {
	return &AdminHandler{admins: admins, registrations: registrations}
}

// CreateAdmin handles POST /admin/admins (super-admin only).
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "full_name, email, password required")
	}

	user, admin, err := h.admins.CreateAdmin(c.Context(), service.CreateAdminInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		SuperAdmin: req.IsSuperAdmin,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message":        "admin created successfully",
			"user_id":        user.ID,
			"admin_id":       admin.ID,
			"is_super_admin": admin.SuperAdmin,
		},
	})
}

// ListAdmins handles GET /admin/admins (super-admin only).
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	accounts, err := h.admins.ListAdmins(c.Context())
	if err != nil {
		return err
	}

	responses := make([]dto.AdminResponse, 0, len(accounts))
	for _, acct := range accounts {
		responses = append(responses, dto.NewAdminResponse(acct))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Me handles GET /admin/me.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil || principal.Admin == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":             principal.Admin.ID,
			"user_id":        principal.User.ID,
			"email":          principal.User.Email,
			"full_name":      principal.User.FullName,
			"is_super_admin": principal.Admin.SuperAdmin,
		},
	})
}

// ListProviders handles GET /admin/providers.
func (h *AdminHandler) ListProviders(c *fiber.Ctx) error {
	verified := c.QueryBool("verified", true)
	limit := c.QueryInt("limit", 6)

	accounts, err := h.admins.ListProviders(c.Context(), verified, limit)
	if err != nil {
		return err
	}

	responses := make([]dto.ProviderResponse, 0, len(accounts))
	for _, acct := range accounts {
		responses = append(responses, dto.NewProviderResponse(acct))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// ListRegistrationRequests handles GET /admin/registration-requests.
func (h *AdminHandler) ListRegistrationRequests(c *fiber.Ctx) error {
	var status *domain.RegistrationStatus
	if v := c.Query("status"); v != "" {
		s := domain.RegistrationStatus(v)
		status = &s
	}

	requests, err := h.registrations.ListRequests(c.Context(), status)
	if err != nil {
		return err
	}

	responses := make([]dto.RegistrationRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, dto.NewRegistrationRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// ApproveRegistration handles POST /admin/registration-requests/:id/approve.
func (h *AdminHandler) ApproveRegistration(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	user, provider, err := h.registrations.Approve(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message":     "registration approved successfully",
			"user_id":     user.ID,
			"provider_id": provider.ID,
		},
	})
}

// RejectRegistration handles POST /admin/registration-requests/:id/reject.
func (h *AdminHandler) RejectRegistration(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.RejectRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Reason == "" {
		return fiber.NewError(http.StatusBadRequest, "reason required")
	}

	if err := h.registrations.Reject(c.Context(), c.Params("id"), principal.User.ID, req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "registration rejected successfully"},
	})
}
