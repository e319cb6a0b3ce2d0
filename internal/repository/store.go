package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEmail signals that an email is already taken by a user
// or an open registration request. Uniqueness is enforced by the
// database, not by application-level checks.
var ErrDuplicateEmail = errors.New("email already registered")

// DB is the query surface shared by pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store aggregates the repositories and provides transactional scopes.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Registrations() RegistrationRepository
	Services() ServiceRepository
	Bookings() BookingRepository

	// WithinTx runs fn against a store bound to a single transaction.
	// Any error from fn rolls the whole transaction back. Nesting is
	// not supported.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	pool *pgxpool.Pool
	db   DB
}

// NewStore returns a Postgres-backed store.
func NewStore(pool *pgxpool.Pool) Store {
	return &sqlStore{pool: pool, db: pool}
}

func (s *sqlStore) Users() UserRepository                 { return &userRepository{db: s.db} }
func (s *sqlStore) Profiles() ProfileRepository           { return &profileRepository{db: s.db} }
func (s *sqlStore) Registrations() RegistrationRepository { return &registrationRepository{db: s.db} }
func (s *sqlStore) Services() ServiceRepository           { return &serviceRepository{db: s.db} }
func (s *sqlStore) Bookings() BookingRepository           { return &bookingRepository{db: s.db} }

func (s *sqlStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return errors.New("no database pool configured")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&sqlStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
