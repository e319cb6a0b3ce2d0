package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homehelp-service/internal/domain"
)

// BookingDetail is a booking joined with service metadata for display.
type BookingDetail struct {
	Booking      domain.Booking
	ServiceTitle string
	ProviderName string
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	ListByHomeOwner(ctx context.Context, homeOwnerID string, status *domain.BookingStatus) ([]BookingDetail, error)
	ListByProvider(ctx context.Context, providerID string, status *domain.BookingStatus) ([]BookingDetail, error)
}

type bookingRepository struct {
	db DB
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(db DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (service_id, homeowner_id, status, scheduled_for)
        VALUES ($1,$2,$3,$4)
        RETURNING id, booked_at`
	return r.db.QueryRow(ctx, query,
		booking.ServiceID,
		booking.HomeOwnerID,
		booking.Status,
		booking.ScheduledFor,
	).Scan(&booking.ID, &booking.BookedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, service_id, homeowner_id, status, booked_at, scheduled_for, completed_at
        FROM bookings WHERE id=$1`
	var booking domain.Booking
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.HomeOwnerID,
		&booking.Status,
		&booking.BookedAt,
		&booking.ScheduledFor,
		&booking.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	const query = `UPDATE bookings SET status=$1, completed_at=$2 WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, booking.Status, booking.CompletedAt, booking.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const selectBookingDetail = `
        SELECT b.id, b.service_id, b.homeowner_id, b.status, b.booked_at, b.scheduled_for, b.completed_at,
               s.title, s.provider_name
        FROM bookings b
        JOIN services s ON s.id = b.service_id`

func (r *bookingRepository) ListByHomeOwner(ctx context.Context, homeOwnerID string, status *domain.BookingStatus) ([]BookingDetail, error) {
	query := selectBookingDetail + ` WHERE b.homeowner_id=$1`
	args := []any{homeOwnerID}
	if status != nil {
		query += ` AND b.status=$2`
		args = append(args, *status)
	}
	query += ` ORDER BY b.scheduled_for`
	return r.fetchMany(ctx, query, args...)
}

func (r *bookingRepository) ListByProvider(ctx context.Context, providerID string, status *domain.BookingStatus) ([]BookingDetail, error) {
	query := selectBookingDetail + ` WHERE s.provider_id=$1`
	args := []any{providerID}
	if status != nil {
		query += ` AND b.status=$2`
		args = append(args, *status)
	}
	query += ` ORDER BY b.scheduled_for`
	return r.fetchMany(ctx, query, args...)
}

func (r *bookingRepository) fetchMany(ctx context.Context, query string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []BookingDetail
	for rows.Next() {
		var detail BookingDetail
		if err := rows.Scan(
			&detail.Booking.ID,
			&detail.Booking.ServiceID,
			&detail.Booking.HomeOwnerID,
			&detail.Booking.Status,
			&detail.Booking.BookedAt,
			&detail.Booking.ScheduledFor,
			&detail.Booking.CompletedAt,
			&detail.ServiceTitle,
			&detail.ProviderName,
		); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}
