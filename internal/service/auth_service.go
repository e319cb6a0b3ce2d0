package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/config"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/ratelimit"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// SignInResult carries the issued token plus the access tier the
// caller landed in. Pending and unverified providers still get a
// token; the flags steer them to the restricted dashboards.
type SignInResult struct {
	Token             string
	ExpiresAt         time.Time
	Role              domain.Role
	UserID            string
	RequestID         string
	Pending           bool
	NeedsDocuments    bool
	NeedsVerification bool
	SuperAdmin        bool
	RedirectTo        string
}

// AuthService coordinates sign-in and password flows.
type AuthService struct {
	store      repository.Store
	tokens     *auth.TokenManager
	limiter    *ratelimit.LoginLimiter
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, store repository.Store, limiter *ratelimit.LoginLimiter) *AuthService {
	return &AuthService{
		store:      store,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		limiter:    limiter,
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// SignIn authenticates (email, password, claimed role). A pending
// provider registration request is consulted before the users table,
// so applicants can sign in to check status and upload documents
// before approval.
func (s *AuthService) SignIn(ctx context.Context, email, password string, claimedRole domain.Role) (*SignInResult, error) {
	if !claimedRole.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": claimedRole})
	}
	if !s.limiter.Allow(ctx, email) {
		return nil, apperrors.NewRateLimited("too many sign-in attempts")
	}

	request, err := s.store.Registrations().GetByEmail(ctx, email)
	if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}
	if err == nil && request.Status == domain.RegistrationPending {
		return s.signInPending(ctx, request, password, claimedRole)
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != claimedRole {
		return nil, apperrors.NewRoleMismatch("user does not have this role")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account inactive")
	}

	claims := auth.Claims{Role: user.Role, UserID: user.ID}
	result := &SignInResult{Role: user.Role, UserID: user.ID}

	switch user.Role {
	case domain.RoleServiceProvider:
		provider, err := s.store.Profiles().GetProviderByUserID(ctx, user.ID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("provider profile", nil)
			}
			return nil, apperrors.MapError(err)
		}
		result.NeedsDocuments = provider.NeedsDocuments()
		if result.NeedsDocuments || !provider.Verified {
			result.NeedsVerification = true
			result.RedirectTo = "/register/upload-documents"
		} else {
			result.RedirectTo = "/dashboard/provider"
		}
	case domain.RoleAdmin:
		admin, err := s.store.Profiles().GetAdminByUserID(ctx, user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.MapError(err)
		}
		if admin != nil {
			claims.SuperAdmin = admin.SuperAdmin
			result.SuperAdmin = admin.SuperAdmin
		}
		result.RedirectTo = "/dashboard/admin"
	default:
		result.RedirectTo = "/dashboard/homeowner"
	}

	token, exp, err := s.tokens.GenerateToken(user.Email, claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	result.Token = token
	result.ExpiresAt = exp

	if err := s.store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.limiter.Reset(ctx, email)
	return result, nil
}

// signInPending issues the restricted pending-tier token against a
// registration request that has not been processed yet.
func (s *AuthService) signInPending(ctx context.Context, request *domain.ProviderRegistrationRequest, password string, claimedRole domain.Role) (*SignInResult, error) {
	if err := auth.ComparePassword(request.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if claimedRole != domain.RoleServiceProvider {
		return nil, apperrors.NewRoleMismatch("pending registration is for the service provider role only")
	}

	claims := auth.Claims{
		Role:      domain.RoleServiceProvider,
		RequestID: request.ID,
		Pending:   true,
	}
	token, exp, err := s.tokens.GenerateToken(request.Email, claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.limiter.Reset(ctx, request.Email)
	return &SignInResult{
		Token:          token,
		ExpiresAt:      exp,
		Role:           domain.RoleServiceProvider,
		RequestID:      request.ID,
		Pending:        true,
		NeedsDocuments: request.NeedsDocuments(),
		RedirectTo:     "/dashboard/provider/pending",
	}, nil
}

// AdminLogin authenticates an admin. When requireSuper is set the
// admin row must carry the super-admin flag.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string, requireSuper bool) (*SignInResult, error) {
	if !s.limiter.Allow(ctx, email) {
		return nil, apperrors.NewRateLimited("too many sign-in attempts")
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != domain.RoleAdmin {
		return nil, apperrors.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	admin, err := s.store.Profiles().GetAdminByUserID(ctx, user.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewForbidden("user is not an admin")
		}
		return nil, apperrors.MapError(err)
	}
	if requireSuper && !admin.SuperAdmin {
		return nil, apperrors.NewForbidden("super admin privileges required")
	}

	claims := auth.Claims{Role: domain.RoleAdmin, UserID: user.ID, SuperAdmin: admin.SuperAdmin}
	token, exp, err := s.tokens.GenerateToken(user.Email, claims)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	redirect := "/dashboard/admin"
	if admin.SuperAdmin {
		redirect = "/dashboard/admin/super"
	}

	if err := s.store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.limiter.Reset(ctx, email)
	return &SignInResult{
		Token:      token,
		ExpiresAt:  exp,
		Role:       domain.RoleAdmin,
		UserID:     user.ID,
		SuperAdmin: admin.SuperAdmin,
		RedirectTo: redirect,
	}, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
