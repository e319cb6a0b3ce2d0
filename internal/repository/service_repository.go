package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// ServiceRepository encapsulates service listing persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, limit, offset int) ([]domain.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]domain.Service, error)
}

type serviceRepository struct {
	db DB
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(db DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (provider_id, title, description, price, image_ref, rating, provider_name, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		service.ProviderID,
		service.Title,
		service.Description,
		service.Price,
		service.ImageRef,
		service.Rating,
		service.ProviderName,
		service.Active,
	).Scan(&service.ID, &service.CreatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET title=$1, description=$2, price=$3, image_ref=$4, is_active=$5
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		service.Title,
		service.Description,
		service.Price,
		service.ImageRef,
		service.Active,
		service.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const selectService = `
        SELECT id, provider_id, title, description, price, image_ref, rating, provider_name, is_active, created_at
        FROM services`

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = selectService + ` WHERE id=$1`
	var service domain.Service
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.ProviderID,
		&service.Title,
		&service.Description,
		&service.Price,
		&service.ImageRef,
		&service.Rating,
		&service.ProviderName,
		&service.Active,
		&service.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context, limit, offset int) ([]domain.Service, error) {
	const query = selectService + ` WHERE is_active=TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.fetchMany(ctx, query, limit, offset)
}

func (r *serviceRepository) ListByProvider(ctx context.Context, providerID string) ([]domain.Service, error) {
	const query = selectService + ` WHERE provider_id=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, providerID)
}

func (r *serviceRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Service, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(
			&service.ID,
			&service.ProviderID,
			&service.Title,
			&service.Description,
			&service.Price,
			&service.ImageRef,
			&service.Rating,
			&service.ProviderName,
			&service.Active,
			&service.CreatedAt,
		); err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, rows.Err()
}
