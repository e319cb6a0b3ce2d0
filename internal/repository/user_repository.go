package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// UserRepository defines persistence access for identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	TouchLastLogin(ctx context.Context, id string) error
	HasRole(ctx context.Context, role domain.Role) (bool, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a user, failing with ErrDuplicateEmail when the email
// belongs to an existing user or an open registration request. Both
// checks happen inside the insert statement so concurrent submissions
// cannot race past an application-level lookup.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, full_name, phone_number, role, is_active)
        SELECT $1, $2, $3, $4, $5, $6
        WHERE NOT EXISTS (
            SELECT 1 FROM provider_registration_requests
            WHERE email = $1 AND status = 'pending'
        )
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.PhoneNumber,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
	if err == pgx.ErrNoRows || isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, full_name, phone_number, role, is_active, created_at, last_login_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, full_name, phone_number, role, is_active, created_at, last_login_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.PhoneNumber,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.LastLoginAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const query = `UPDATE users SET password_hash=$1 WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE users SET last_login_at=NOW() WHERE id=$1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// HasRole reports whether any user with the given role exists. Used by
// the bootstrap seeding path.
func (r *userRepository) HasRole(ctx context.Context, role domain.Role) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE role=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, role).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
