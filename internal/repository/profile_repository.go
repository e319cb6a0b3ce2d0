package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// AdminAccount is an admin row joined with its user identity.
type AdminAccount struct {
	Admin     domain.Admin
	Email     string
	FullName  string
	CreatedAt time.Time
}

// ProviderAccount is a provider row joined with its user identity.
type ProviderAccount struct {
	Provider  domain.ServiceProvider
	Email     string
	FullName  string
	Phone     *string
	CreatedAt time.Time
}

// ProfileRepository persists the role-specific profile rows that extend
// a User. Exactly one profile kind attaches to a user, determined by
// its immutable role.
type ProfileRepository interface {
	CreateHomeOwner(ctx context.Context, owner *domain.HomeOwner) error
	CreateServiceProvider(ctx context.Context, provider *domain.ServiceProvider) error
	CreateAdmin(ctx context.Context, admin *domain.Admin) error
	GetHomeOwnerByUserID(ctx context.Context, userID string) (*domain.HomeOwner, error)
	GetProviderByUserID(ctx context.Context, userID string) (*domain.ServiceProvider, error)
	GetAdminByUserID(ctx context.Context, userID string) (*domain.Admin, error)
	UpdateProviderDocuments(ctx context.Context, providerID, idRef, certRef string) error
	ListAdmins(ctx context.Context) ([]AdminAccount, error)
	ListProviders(ctx context.Context, verified bool, limit int) ([]ProviderAccount, error)
}

type profileRepository struct {
	db DB
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(db DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateHomeOwner(ctx context.Context, owner *domain.HomeOwner) error {
	const query = `
        INSERT INTO homeowners (user_id, address)
        VALUES ($1, $2)
        RETURNING id`
	return r.db.QueryRow(ctx, query, owner.UserID, owner.Address).Scan(&owner.ID)
}

func (r *profileRepository) CreateServiceProvider(ctx context.Context, provider *domain.ServiceProvider) error {
	const query = `
        INSERT INTO service_providers
            (user_id, business_name, address, years_experience, service_description,
             id_verification_ref, certification_ref, is_verified, verified_at, verified_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		provider.UserID,
		provider.BusinessName,
		provider.Address,
		provider.YearsExperience,
		provider.ServiceDescription,
		provider.IDVerificationRef,
		provider.CertificationRef,
		provider.Verified,
		provider.VerifiedAt,
		provider.VerifiedBy,
	).Scan(&provider.ID)
}

func (r *profileRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (user_id, is_super_admin)
        VALUES ($1, $2)
        RETURNING id`
	return r.db.QueryRow(ctx, query, admin.UserID, admin.SuperAdmin).Scan(&admin.ID)
}

func (r *profileRepository) GetHomeOwnerByUserID(ctx context.Context, userID string) (*domain.HomeOwner, error) {
	const query = `SELECT id, user_id, address FROM homeowners WHERE user_id=$1`
	var owner domain.HomeOwner
	if err := r.db.QueryRow(ctx, query, userID).Scan(&owner.ID, &owner.UserID, &owner.Address); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *profileRepository) GetProviderByUserID(ctx context.Context, userID string) (*domain.ServiceProvider, error) {
	const query = `
        SELECT id, user_id, business_name, address, years_experience, service_description,
               id_verification_ref, certification_ref, is_verified, verified_at, verified_by
        FROM service_providers WHERE user_id=$1`
	var provider domain.ServiceProvider
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&provider.ID,
		&provider.UserID,
		&provider.BusinessName,
		&provider.Address,
		&provider.YearsExperience,
		&provider.ServiceDescription,
		&provider.IDVerificationRef,
		&provider.CertificationRef,
		&provider.Verified,
		&provider.VerifiedAt,
		&provider.VerifiedBy,
	); err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *profileRepository) GetAdminByUserID(ctx context.Context, userID string) (*domain.Admin, error) {
	const query = `SELECT id, user_id, is_super_admin FROM admins WHERE user_id=$1`
	var admin domain.Admin
	if err := r.db.QueryRow(ctx, query, userID).Scan(&admin.ID, &admin.UserID, &admin.SuperAdmin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateProviderDocuments replaces the verification document refs and
// clears the verified flag pending re-approval.
func (r *profileRepository) UpdateProviderDocuments(ctx context.Context, providerID, idRef, certRef string) error {
	const query = `
        UPDATE service_providers
        SET id_verification_ref=$1, certification_ref=$2, is_verified=FALSE, verified_at=NULL, verified_by=NULL
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, idRef, certRef, providerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) ListAdmins(ctx context.Context) ([]AdminAccount, error) {
	const query = `
        SELECT a.id, a.user_id, a.is_super_admin, u.email, u.full_name, u.created_at
        FROM admins a
        JOIN users u ON u.id = a.user_id
        ORDER BY u.created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []AdminAccount
	for rows.Next() {
		var acct AdminAccount
		if err := rows.Scan(
			&acct.Admin.ID,
			&acct.Admin.UserID,
			&acct.Admin.SuperAdmin,
			&acct.Email,
			&acct.FullName,
			&acct.CreatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (r *profileRepository) ListProviders(ctx context.Context, verified bool, limit int) ([]ProviderAccount, error) {
	const query = `
        SELECT p.id, p.user_id, p.business_name, p.address, p.years_experience, p.service_description,
               p.id_verification_ref, p.certification_ref, p.is_verified, p.verified_at, p.verified_by,
               u.email, u.full_name, u.phone_number, u.created_at
        FROM service_providers p
        JOIN users u ON u.id = p.user_id
        WHERE p.is_verified = $1
        ORDER BY u.created_at DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, verified, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []ProviderAccount
	for rows.Next() {
		var acct ProviderAccount
		if err := rows.Scan(
			&acct.Provider.ID,
			&acct.Provider.UserID,
			&acct.Provider.BusinessName,
			&acct.Provider.Address,
			&acct.Provider.YearsExperience,
			&acct.Provider.ServiceDescription,
			&acct.Provider.IDVerificationRef,
			&acct.Provider.CertificationRef,
			&acct.Provider.Verified,
			&acct.Provider.VerifiedAt,
			&acct.Provider.VerifiedBy,
			&acct.Email,
			&acct.FullName,
			&acct.Phone,
			&acct.CreatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}
