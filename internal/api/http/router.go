package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/api/http/handlers"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Registration   *handlers.RegistrationHandler
	Admin          *handlers.AdminHandler
	Services       *handlers.ServicesHandler
	Bookings       *handlers.BookingsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/validate", cfg.Auth.Validate)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	register := app.Group("/register")
	register.Post("/homeowner", cfg.Registration.RegisterHomeowner)
	register.Post("/provider/request", cfg.Registration.SubmitProviderRequest)

	// Pending applicants carry a restricted token scoped to their request,
	// so the provider group admits both tiers and each handler narrows.
	provider := app.Group("/provider", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleServiceProvider))
	provider.Get("/status", cfg.Registration.Status)
	provider.Post("/documents", cfg.Registration.UploadDocuments)

	verifiedProvider := provider.Group("", auth.RequireVerifiedProvider())
	verifiedProvider.Get("/services", cfg.Services.ListMine)
	verifiedProvider.Get("/bookings", cfg.Bookings.List)

	services := app.Group("/services")
	services.Get("/", cfg.Services.List)
	services.Get("/:id", cfg.Services.Get)

	serviceWrite := services.Group("", cfg.AuthMiddleware.Handle, auth.RequireVerifiedProvider())
	serviceWrite.Post("/", cfg.Services.Create)
	serviceWrite.Patch("/:id", cfg.Services.Update)

	bookings := app.Group("/bookings", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleHomeowner, domain.RoleServiceProvider))
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/", cfg.Bookings.List)
	bookings.Patch("/:id/status", cfg.Bookings.UpdateStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/me", cfg.Admin.Me)
	admin.Get("/providers", cfg.Admin.ListProviders)
	admin.Get("/registration-requests", cfg.Admin.ListRegistrationRequests)
	admin.Post("/registration-requests/:id/approve", cfg.Admin.ApproveRegistration)
	admin.Post("/registration-requests/:id/reject", cfg.Admin.RejectRegistration)

	superAdmin := admin.Group("", auth.RequireSuperAdmin())
	superAdmin.Post("/admins", cfg.Admin.CreateAdmin)
	superAdmin.Get("/admins", cfg.Admin.ListAdmins)
}
