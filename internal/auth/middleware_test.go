package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// stubStore serves fixed identities; only the lookup paths used by the
// middleware are implemented.
type stubStore struct {
	user     *domain.User
	admin    *domain.Admin
	provider *domain.ServiceProvider
	owner    *domain.HomeOwner
	request  *domain.ProviderRegistrationRequest
}

func (s *stubStore) Users() repository.UserRepository                 { return &stubUsers{store: s} }
func (s *stubStore) Profiles() repository.ProfileRepository           { return &stubProfiles{store: s} }
func (s *stubStore) Registrations() repository.RegistrationRepository { return &stubRequests{store: s} }
func (s *stubStore) Services() repository.ServiceRepository           { return nil }
func (s *stubStore) Bookings() repository.BookingRepository           { return nil }
func (s *stubStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type stubUsers struct {
	repository.UserRepository
	store *stubStore
}

func (r *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.store.user != nil && r.store.user.Email == email {
		return r.store.user, nil
	}
	return nil, pgx.ErrNoRows
}

type stubProfiles struct {
	repository.ProfileRepository
	store *stubStore
}

func (r *stubProfiles) GetAdminByUserID(_ context.Context, userID string) (*domain.Admin, error) {
	if r.store.admin != nil && r.store.admin.UserID == userID {
		return r.store.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubProfiles) GetProviderByUserID(_ context.Context, userID string) (*domain.ServiceProvider, error) {
	if r.store.provider != nil && r.store.provider.UserID == userID {
		return r.store.provider, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubProfiles) GetHomeOwnerByUserID(_ context.Context, userID string) (*domain.HomeOwner, error) {
	if r.store.owner != nil && r.store.owner.UserID == userID {
		return r.store.owner, nil
	}
	return nil, pgx.ErrNoRows
}

type stubRequests struct {
	repository.RegistrationRepository
	store *stubStore
}

func (r *stubRequests) GetByEmail(_ context.Context, email string) (*domain.ProviderRegistrationRequest, error) {
	if r.store.request != nil && r.store.request.Email == email {
		return r.store.request, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestApp(store *stubStore, tokens *TokenManager, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
		},
	})

	middleware := NewAuthMiddleware(tokens, store)
	chain := append([]fiber.Handler{middleware.Handle}, guards...)
	chain = append(chain, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{"role": principal.Role(), "tier": principal.Tier})
	})
	app.Get("/protected", chain...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func issueToken(t *testing.T, tm *TokenManager, email string, claims Claims) string {
	t.Helper()
	token, _, err := tm.GenerateToken(email, claims)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	activeUser := &domain.User{ID: "user-1", Email: "olive@example.com", Role: domain.RoleHomeowner, Active: true}

	t.Run("missing header", func(t *testing.T) {
		app := newTestApp(&stubStore{}, tm)
		resp := doRequest(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newTestApp(&stubStore{}, tm)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		app := newTestApp(&stubStore{}, tm)
		resp := doRequest(t, app, "garbage")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token resolves the canonical user", func(t *testing.T) {
		store := &stubStore{user: activeUser, owner: &domain.HomeOwner{ID: "owner-1", UserID: "user-1"}}
		app := newTestApp(store, tm)
		token := issueToken(t, tm, activeUser.Email, Claims{Role: domain.RoleHomeowner, UserID: activeUser.ID})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("token outlives the account", func(t *testing.T) {
		app := newTestApp(&stubStore{}, tm)
		token := issueToken(t, tm, "gone@example.com", Claims{Role: domain.RoleHomeowner})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := *activeUser
		inactive.Active = false
		app := newTestApp(&stubStore{user: &inactive}, tm)
		token := issueToken(t, tm, inactive.Email, Claims{Role: domain.RoleHomeowner})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("pending token resolves the open application", func(t *testing.T) {
		store := &stubStore{request: &domain.ProviderRegistrationRequest{
			ID:     "req-1",
			Email:  "pat@example.com",
			Status: domain.RegistrationPending,
		}}
		app := newTestApp(store, tm)
		token := issueToken(t, tm, "pat@example.com", Claims{Role: domain.RoleServiceProvider, RequestID: "req-1", Pending: true})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("pending token dies with the processed application", func(t *testing.T) {
		store := &stubStore{request: &domain.ProviderRegistrationRequest{
			ID:     "req-1",
			Email:  "pat@example.com",
			Status: domain.RegistrationApproved,
		}}
		app := newTestApp(store, tm)
		token := issueToken(t, tm, "pat@example.com", Claims{Role: domain.RoleServiceProvider, RequestID: "req-1", Pending: true})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRoleGuards(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)

	adminUser := &domain.User{ID: "user-a", Email: "ada@example.com", Role: domain.RoleAdmin, Active: true}
	providerUser := &domain.User{ID: "user-p", Email: "pat@example.com", Role: domain.RoleServiceProvider, Active: true}

	t.Run("RequireRole rejects other roles", func(t *testing.T) {
		store := &stubStore{user: adminUser, admin: &domain.Admin{ID: "admin-1", UserID: "user-a"}}
		app := newTestApp(store, tm, RequireRole(domain.RoleHomeowner))
		token := issueToken(t, tm, adminUser.Email, Claims{Role: domain.RoleAdmin})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("role comes from the store, not the token", func(t *testing.T) {
		store := &stubStore{user: adminUser, admin: &domain.Admin{ID: "admin-1", UserID: "user-a"}}
		app := newTestApp(store, tm, RequireAdmin())
		// stale claim: the token still says homeowner
		token := issueToken(t, tm, adminUser.Email, Claims{Role: domain.RoleHomeowner})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RequireSuperAdmin rejects plain admins", func(t *testing.T) {
		store := &stubStore{user: adminUser, admin: &domain.Admin{ID: "admin-1", UserID: "user-a", SuperAdmin: false}}
		app := newTestApp(store, tm, RequireSuperAdmin())
		token := issueToken(t, tm, adminUser.Email, Claims{Role: domain.RoleAdmin})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RequireSuperAdmin admits super admins", func(t *testing.T) {
		store := &stubStore{user: adminUser, admin: &domain.Admin{ID: "admin-1", UserID: "user-a", SuperAdmin: true}}
		app := newTestApp(store, tm, RequireSuperAdmin())
		token := issueToken(t, tm, adminUser.Email, Claims{Role: domain.RoleAdmin})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RequireVerifiedProvider rejects pending applicants", func(t *testing.T) {
		store := &stubStore{request: &domain.ProviderRegistrationRequest{
			ID:     "req-1",
			Email:  "pat@example.com",
			Status: domain.RegistrationPending,
		}}
		app := newTestApp(store, tm, RequireVerifiedProvider())
		token := issueToken(t, tm, "pat@example.com", Claims{Role: domain.RoleServiceProvider, RequestID: "req-1", Pending: true})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RequireVerifiedProvider rejects unverified providers", func(t *testing.T) {
		store := &stubStore{user: providerUser, provider: &domain.ServiceProvider{ID: "prov-1", UserID: "user-p", Verified: false}}
		app := newTestApp(store, tm, RequireVerifiedProvider())
		token := issueToken(t, tm, providerUser.Email, Claims{Role: domain.RoleServiceProvider})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RequireVerifiedProvider admits verified providers", func(t *testing.T) {
		store := &stubStore{user: providerUser, provider: &domain.ServiceProvider{ID: "prov-1", UserID: "user-p", Verified: true}}
		app := newTestApp(store, tm, RequireVerifiedProvider())
		token := issueToken(t, tm, providerUser.Email, Claims{Role: domain.RoleServiceProvider})

		resp := doRequest(t, app, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
