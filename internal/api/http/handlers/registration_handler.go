package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/dto"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/service"
)

// RegistrationHandler exposes registration and provider status endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationHandler constructs handler.
func NewRegistrationHandler(registrations *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// RegisterHomeowner handles POST /register/homeowner.
func (h *RegistrationHandler) RegisterHomeowner(c *fiber.Ctx) error {
	var req dto.RegisterHomeownerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "full_name, email, password required")
	}

	user, owner, err := h.registrations.RegisterHomeowner(c.Context(), service.RegisterHomeownerInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message":      "homeowner created successfully",
			"user_id":      user.ID,
			"homeowner_id": owner.ID,
		},
	})
}

// SubmitProviderRequest handles POST /register/provider/request
// (multipart form; documents optional).
func (h *RegistrationHandler) SubmitProviderRequest(c *fiber.Ctx) error {
	in := service.SubmitProviderInput{
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "full_name, email, password required")
	}
	if v := c.FormValue("phone_number"); v != "" {
		in.PhoneNumber = &v
	}
	if v := c.FormValue("address"); v != "" {
		in.Address = &v
	}
	if v := c.FormValue("years_experience"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid years_experience")
		}
		in.YearsExperience = &years
	}

	idDoc, closeID, err := formDocument(c, "id_verification")
	if err != nil {
		return err
	}
	defer closeID()
	certDoc, closeCert, err := formDocument(c, "certification")
	if err != nil {
		return err
	}
	defer closeCert()
	in.IDVerification = idDoc
	in.Certification = certDoc

	request, err := h.registrations.SubmitProviderRequest(c.Context(), in)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message":         "registration request submitted; awaiting admin approval",
			"request_id":      request.ID,
			"needs_documents": request.NeedsDocuments(),
			"redirect_to":     "/login",
		},
	})
}

// UploadDocuments handles POST /provider/documents for both tiers:
// pending applicants update their request, approved providers replace
// their documents and drop back to unverified.
func (h *RegistrationHandler) UploadDocuments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	idDoc, closeID, err := formDocument(c, "id_verification")
	if err != nil {
		return err
	}
	defer closeID()
	certDoc, closeCert, err := formDocument(c, "certification")
	if err != nil {
		return err
	}
	defer closeCert()

	if principal.Tier == domain.TierPending {
		if err := h.registrations.UploadRequestDocuments(c.Context(), principal.Request.ID, idDoc, certDoc); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"message":     "documents uploaded; awaiting admin approval",
				"request_id":  principal.Request.ID,
				"redirect_to": "/dashboard/provider/pending",
			},
		})
	}

	if principal.Provider == nil {
		return fiber.NewError(http.StatusNotFound, "provider not found")
	}
	if idDoc == nil || certDoc == nil {
		return fiber.NewError(http.StatusBadRequest, "id_verification and certification files required")
	}
	if err := h.registrations.UploadProviderDocuments(c.Context(), principal.Provider, *idDoc, *certDoc); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message":     "documents uploaded; awaiting admin approval",
			"provider_id": principal.Provider.ID,
			"redirect_to": "/dashboard/provider",
		},
	})
}

// Status handles GET /provider/status for both tiers.
func (h *RegistrationHandler) Status(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	if principal.Tier == domain.TierPending {
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"status":          principal.Request.Status,
				"is_pending":      true,
				"needs_documents": principal.Request.NeedsDocuments(),
			},
		})
	}

	if principal.Provider == nil {
		return fiber.NewError(http.StatusNotFound, "provider not found")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"is_verified":     principal.Provider.Verified,
			"needs_documents": principal.Provider.NeedsDocuments(),
		},
	})
}

// formDocument extracts an optional multipart file as a service
// document; the returned func closes the underlying file.
func formDocument(c *fiber.Ctx, field string) (*service.Document, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}
	return openDocument(header)
}

func openDocument(header *multipart.FileHeader) (*service.Document, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, fiber.NewError(http.StatusBadRequest, "unreadable upload")
	}
	doc := &service.Document{Filename: header.Filename, Content: file}
	return doc, func() { file.Close() }, nil
}
