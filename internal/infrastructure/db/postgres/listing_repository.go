package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// ListingRepository implements ports.ListingRepository. Deleting a listing
// cascades to its bookings through the foreign key.
type ListingRepository struct {
	db *DB
}

func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, title, description, price, location, sitter_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(s rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.Location, &l.SitterID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	_, err := r.db.exec(ctx,
		`INSERT INTO listings (`+listingColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.Title, l.Description, l.Price, l.Location, l.SitterID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	l, err := scanListing(r.db.queryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return l, nil
}

func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.exec(ctx,
		`UPDATE listings SET title = $2, description = $3, price = $4, location = $5, updated_at = $6 WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Price, l.Location, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return requireRow(res, domain.ErrListingNotFound)
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return requireRow(res, domain.ErrListingNotFound)
}

func (r *ListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at, id`)
}

func (r *ListingRepository) ListBySitter(ctx context.Context, sitterID string) ([]*domain.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM listings WHERE sitter_id = $1 ORDER BY created_at, id`, sitterID)
}

func (r *ListingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Listing, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return out, nil
}

// requireRow returns notFound when res touched no rows.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
