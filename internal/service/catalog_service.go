package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
	"github.com/spec-kit/homehelp-service/internal/repository"
	apperrors "github.com/spec-kit/homehelp-service/pkg/util"
)

// CreateServiceInput describes a new listing.
type CreateServiceInput struct {
	Title       string
	Description string
	Price       int64
	ImageRef    *string
}

// UpdateServiceInput carries optional listing changes.
type UpdateServiceInput struct {
	Title       *string
	Description *string
	Price       *int64
	ImageRef    *string
	Active      *bool
}

// CatalogService manages provider service listings. Only verified
// providers may create or change listings; the route guard enforces
// verification and this service enforces ownership.
type CatalogService struct {
	store repository.Store
}

// NewCatalogService builds the service.
func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// CreateService adds a listing owned by the provider.
func (s *CatalogService) CreateService(ctx context.Context, provider *domain.ServiceProvider, providerName string, in CreateServiceInput) (*domain.Service, error) {
	if in.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	service := &domain.Service{
		ProviderID:   provider.ID,
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		ImageRef:     in.ImageRef,
		ProviderName: providerName,
		Active:       true,
	}
	if err := s.store.Services().Create(ctx, service); err != nil {
		return nil, apperrors.MapError(err)
	}
	return service, nil
}

// UpdateService applies the provided fields to a listing the provider owns.
func (s *CatalogService) UpdateService(ctx context.Context, provider *domain.ServiceProvider, serviceID string, in UpdateServiceInput) (*domain.Service, error) {
	service, err := s.store.Services().GetByID(ctx, serviceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("service", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if service.ProviderID != provider.ID {
		return nil, apperrors.NewForbidden("you do not own this service")
	}

	if in.Title != nil {
		service.Title = *in.Title
	}
	if in.Description != nil {
		service.Description = *in.Description
	}
	if in.Price != nil {
		service.Price = *in.Price
	}
	if in.ImageRef != nil {
		service.ImageRef = in.ImageRef
	}
	if in.Active != nil {
		service.Active = *in.Active
	}

	if err := s.store.Services().Update(ctx, service); err != nil {
		return nil, apperrors.MapError(err)
	}
	return service, nil
}

// GetService returns a single listing.
func (s *CatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	service, err := s.store.Services().GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("service", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return service, nil
}

// ListServices returns active listings for browsing.
func (s *CatalogService) ListServices(ctx context.Context, limit, offset int) ([]domain.Service, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	services, err := s.store.Services().List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return services, nil
}

// ListProviderServices returns all listings owned by the provider.
func (s *CatalogService) ListProviderServices(ctx context.Context, provider *domain.ServiceProvider) ([]domain.Service, error) {
	services, err := s.store.Services().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return services, nil
}
