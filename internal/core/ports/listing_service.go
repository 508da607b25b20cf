package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// ListingInput is the raw listing payload. Price keeps the caller's text so
// the validation layer can coerce numbers sent as strings; nil means absent.
type ListingInput struct {
	Title       string
	Description string
	Location    string
	Price       *string
}

// ListingView is a listing enriched with its sitter's public profile.
// Sitter is nil when the sitter account no longer resolves.
type ListingView struct {
	Listing *domain.Listing
	Sitter  *domain.PublicUser
}

// ListingService orchestrates the listing lifecycle.
type ListingService interface {
	Create(ctx context.Context, caller domain.Identity, in ListingInput) (*ListingView, error)
	List(ctx context.Context) ([]ListingView, error)
	ListMine(ctx context.Context, caller domain.Identity) ([]ListingView, error)
	Get(ctx context.Context, id string) (*ListingView, error)
	Update(ctx context.Context, caller domain.Identity, id string, in ListingInput) (*ListingView, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
