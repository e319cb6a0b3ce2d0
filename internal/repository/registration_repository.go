package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// RegistrationRepository persists provider registration requests.
// Approved and rejected requests are terminal; the status-guarded
// updates below refuse to touch them.
type RegistrationRepository interface {
	Create(ctx context.Context, request *domain.ProviderRegistrationRequest) error
	GetByID(ctx context.Context, id string) (*domain.ProviderRegistrationRequest, error)
	GetByEmail(ctx context.Context, email string) (*domain.ProviderRegistrationRequest, error)
	List(ctx context.Context, status *domain.RegistrationStatus) ([]domain.ProviderRegistrationRequest, error)
	UpdateDocuments(ctx context.Context, id string, idRef, certRef *string) error
	MarkApproved(ctx context.Context, id, adminUserID string) error
	MarkRejected(ctx context.Context, id, adminUserID, reason string) error
}

type registrationRepository struct {
	db DB
}

// NewRegistrationRepository returns a Postgres-backed implementation.
func NewRegistrationRepository(db DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create inserts a pending request, failing with ErrDuplicateEmail when
// the email belongs to an existing user or another request. The user
// check rides inside the insert so two concurrent submissions resolve
// at the database, not in application code.
func (r *registrationRepository) Create(ctx context.Context, request *domain.ProviderRegistrationRequest) error {
	const query = `
        INSERT INTO provider_registration_requests
            (email, full_name, phone_number, address, years_experience, password_hash,
             id_verification_ref, certification_ref, status)
        SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
        WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = $1)
        RETURNING id, requested_at`

	err := r.db.QueryRow(ctx, query,
		request.Email,
		request.FullName,
		request.PhoneNumber,
		request.Address,
		request.YearsExperience,
		request.PasswordHash,
		request.IDVerificationRef,
		request.CertificationRef,
		request.Status,
	).Scan(&request.ID, &request.RequestedAt)
	if err == pgx.ErrNoRows || isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.ProviderRegistrationRequest, error) {
	const query = selectRequest + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetByEmail returns the most recent application for the email. A
// rejected applicant may apply again, so older terminal rows are
// shadowed by the latest one.
func (r *registrationRepository) GetByEmail(ctx context.Context, email string) (*domain.ProviderRegistrationRequest, error) {
	const query = selectRequest + ` WHERE email=$1 ORDER BY requested_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, email)
}

const selectRequest = `
        SELECT id, email, full_name, phone_number, address, years_experience, password_hash,
               id_verification_ref, certification_ref, status, rejection_reason,
               requested_at, processed_at, processed_by
        FROM provider_registration_requests`

func (r *registrationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ProviderRegistrationRequest, error) {
	var request domain.ProviderRegistrationRequest
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&request.ID,
		&request.Email,
		&request.FullName,
		&request.PhoneNumber,
		&request.Address,
		&request.YearsExperience,
		&request.PasswordHash,
		&request.IDVerificationRef,
		&request.CertificationRef,
		&request.Status,
		&request.RejectionReason,
		&request.RequestedAt,
		&request.ProcessedAt,
		&request.ProcessedBy,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *registrationRepository) List(ctx context.Context, status *domain.RegistrationStatus) ([]domain.ProviderRegistrationRequest, error) {
	query := selectRequest
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY requested_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.ProviderRegistrationRequest
	for rows.Next() {
		var request domain.ProviderRegistrationRequest
		if err := rows.Scan(
			&request.ID,
			&request.Email,
			&request.FullName,
			&request.PhoneNumber,
			&request.Address,
			&request.YearsExperience,
			&request.PasswordHash,
			&request.IDVerificationRef,
			&request.CertificationRef,
			&request.Status,
			&request.RejectionReason,
			&request.RequestedAt,
			&request.ProcessedAt,
			&request.ProcessedBy,
		); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// UpdateDocuments fills or replaces document refs while the request is
// still pending. A processed request yields pgx.ErrNoRows.
func (r *registrationRepository) UpdateDocuments(ctx context.Context, id string, idRef, certRef *string) error {
	const query = `
        UPDATE provider_registration_requests
        SET id_verification_ref = COALESCE($1, id_verification_ref),
            certification_ref = COALESCE($2, certification_ref)
        WHERE id=$3 AND status='pending'`
	cmd, err := r.db.Exec(ctx, query, idRef, certRef, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) MarkApproved(ctx context.Context, id, adminUserID string) error {
	const query = `
        UPDATE provider_registration_requests
        SET status='approved', processed_at=NOW(), processed_by=$1
        WHERE id=$2 AND status='pending'`
	cmd, err := r.db.Exec(ctx, query, adminUserID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) MarkRejected(ctx context.Context, id, adminUserID, reason string) error {
	const query = `
        UPDATE provider_registration_requests
        SET status='rejected', rejection_reason=$1, processed_at=NOW(), processed_by=$2
        WHERE id=$3 AND status='pending'`
	cmd, err := r.db.Exec(ctx, query, reason, adminUserID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
