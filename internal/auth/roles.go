package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homehelp-service/internal/domain"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// RequireAuthenticated ensures a principal was resolved, of any role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the caller holds one of the allowed roles.
// Pending-tier applicants count as service providers.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an admin.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireSuperAdmin ensures the caller is an admin whose admin row
// carries the super-admin flag.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role() != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		if !principal.IsSuperAdmin() {
			return apperrors.NewForbidden("super admin privileges required")
		}
		return c.Next()
	}
}

// RequireVerifiedProvider ensures the caller is a fully registered,
// admin-verified service provider. Pending applicants are rejected.
func RequireVerifiedProvider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role() != domain.RoleServiceProvider || principal.Tier != domain.TierFull {
			return apperrors.NewForbidden("verified provider required")
		}
		if principal.Provider == nil || !principal.Provider.Verified {
			return apperrors.NewForbidden("provider account not yet approved")
		}
		return c.Next()
	}
}
