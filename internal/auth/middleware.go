package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Pending-tier callers
// resolve from their registration request; everyone else resolves from
// the users table, which is the canonical role source regardless of
// what the token claims.
type Principal struct {
	Tier      domain.AccessTier
	User      *domain.User
	Admin     *domain.Admin
	Provider  *domain.ServiceProvider
	HomeOwner *domain.HomeOwner
	Request   *domain.ProviderRegistrationRequest
	Claims    *Claims
}

// Role returns the caller's canonical role.
func (p *Principal) Role() domain.Role {
	if p.Tier == domain.TierPending {
		return domain.RoleServiceProvider
	}
	if p.User != nil {
		return p.User.Role
	}
	return ""
}

// Email returns the caller's email.
func (p *Principal) Email() string {
	if p.Tier == domain.TierPending && p.Request != nil {
		return p.Request.Email
	}
	if p.User != nil {
		return p.User.Email
	}
	return ""
}

// IsSuperAdmin reports whether the caller is an admin with the
// super-admin flag set on the canonical admin row.
func (p *Principal) IsSuperAdmin() bool {
	return p.Admin != nil && p.Admin.SuperAdmin
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	store  repository.Store
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, store repository.Store) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: store}
}

// Handle enforces authentication for protected routes. The role inside
// the token is treated as a cache only: the canonical identity is
// re-read from the repository so a token cannot outlive a role change.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{Tier: domain.TierFull, Claims: claims}

	if claims.Pending {
		request, err := m.store.Registrations().GetByEmail(c.Context(), claims.Email())
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("registration request not found")
			}
			return apperrors.MapError(err)
		}
		if request.Status != domain.RegistrationPending {
			return apperrors.NewUnauthorized("registration request already processed")
		}
		principal.Tier = domain.TierPending
		principal.Request = request
		c.Locals(principalKey, principal)
		return c.Next()
	}

	user, err := m.store.Users().GetByEmail(c.Context(), claims.Email())
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewUnauthorized("account inactive")
	}
	principal.User = user

	switch user.Role {
	case domain.RoleAdmin:
		admin, err := m.store.Profiles().GetAdminByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
		principal.Admin = admin
	case domain.RoleServiceProvider:
		provider, err := m.store.Profiles().GetProviderByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
		principal.Provider = provider
	case domain.RoleHomeowner:
		owner, err := m.store.Profiles().GetHomeOwnerByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
		principal.HomeOwner = owner
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
