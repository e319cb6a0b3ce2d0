package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/config"
	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// CreateAdminInput describes a new admin account. Only super admins
// may call the operation; the guard lives at the route.
type CreateAdminInput struct {
	FullName   string
	Email      string
	Password   string
	SuperAdmin bool
}

// AdminService manages admin accounts and provider oversight views.
type AdminService struct {
	store      repository.Store
	logger     *zap.Logger
	bcryptCost int
}

// NewAdminService builds the service.
func NewAdminService(store repository.Store, logger *zap.Logger, bcryptCost int) *AdminService {
	return &AdminService{store: store, logger: logger, bcryptCost: bcryptCost}
}

// CreateAdmin creates the User and Admin rows in one transaction.
func (s *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*domain.User, *domain.Admin, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	admin := &domain.Admin{SuperAdmin: in.SuperAdmin}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		admin.UserID = user.ID
		return tx.Profiles().CreateAdmin(ctx, admin)
	})
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, nil, apperrors.NewDuplicateEmail(in.Email)
		}
		return nil, nil, apperrors.MapError(err)
	}
	return user, admin, nil
}

// ListAdmins returns all admin accounts.
func (s *AdminService) ListAdmins(ctx context.Context) ([]repository.AdminAccount, error) {
	accounts, err := s.store.Profiles().ListAdmins(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// ListProviders returns provider accounts filtered by verification state.
func (s *AdminService) ListProviders(ctx context.Context, verified bool, limit int) ([]repository.ProviderAccount, error) {
	if limit <= 0 {
		limit = 6
	}
	accounts, err := s.store.Profiles().ListProviders(ctx, verified, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Bootstrap seeds the initial super admin when no admin account exists
// yet. Safe to run on every startup.
func (s *AdminService) Bootstrap(ctx context.Context, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		s.logger.Info("bootstrap admin not configured; skipping")
		return nil
	}

	exists, err := s.store.Users().HasRole(ctx, domain.RoleAdmin)
	if err != nil {
		return apperrors.MapError(err)
	}
	if exists {
		return nil
	}

	_, _, err = s.CreateAdmin(ctx, CreateAdminInput{
		FullName:   cfg.AdminName,
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
		SuperAdmin: true,
	})
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap super admin created", zap.String("email", cfg.AdminEmail))
	return nil
}
