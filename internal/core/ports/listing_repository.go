package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// ListingRepository persists listings. Lookups of a missing id return
// domain.ErrListingNotFound.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	Delete(ctx context.Context, id string) error
	// List returns every listing, oldest first.
	List(ctx context.Context) ([]*domain.Listing, error)
	ListBySitter(ctx context.Context, sitterID string) ([]*domain.Listing, error)
}
