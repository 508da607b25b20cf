package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// BookingRepository implements ports.BookingRepository.
type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, listing_id, owner_id, start_date, end_date, status, created_at, updated_at`

func scanBooking(s rowScanner) (*domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	if err := s.Scan(&b.ID, &b.ListingID, &b.OwnerID, &b.StartDate, &b.EndDate, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	b.StartDate = dateOnly(b.StartDate)
	b.EndDate = dateOnly(b.EndDate)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.ListingID, b.OwnerID,
		b.StartDate.Format(domain.DateLayout), b.EndDate.Format(domain.DateLayout),
		string(b.Status), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	b, err := scanBooking(r.db.queryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		b.ID, string(b.Status), b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return requireRow(res, domain.ErrBookingNotFound)
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
}

func (r *BookingRepository) ListByListings(ctx context.Context, listingIDs []string) ([]*domain.Booking, error) {
	if len(listingIDs) == 0 {
		return []*domain.Booking{}, nil
	}
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE listing_id = ANY($1) ORDER BY created_at, id`,
		pq.Array(listingIDs),
	)
}

func (r *BookingRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.exec(ctx, `DELETE FROM bookings WHERE listing_id = $1`, listingID)
	if err != nil {
		return 0, fmt.Errorf("delete bookings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}
