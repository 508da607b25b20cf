package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// ListingRepository implements ports.ListingRepository using MongoDB.
type ListingRepository struct {
	col      *mongo.Collection
	bookings *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		col:      db.Collection(collectionListings),
		bookings: db.Collection(collectionBookings),
	}
}

type listingDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Location    string    `bson:"location"`
	SitterID    string    `bson:"sitter_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newListingDoc(l *domain.Listing) listingDoc {
	return listingDoc{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		SitterID:    l.SitterID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (d listingDoc) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		SitterID:    d.SitterID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts a new listing document.
func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, newListingDoc(l)); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by id.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc listingDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the mutable fields of l.
func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       l.Title,
		"description": l.Description,
		"price":       l.Price,
		"location":    l.Location,
		"updated_at":  l.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": l.ID}, update)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete removes the listing and every booking that references it. Mongo has
// no foreign keys, so the cascade is explicit.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	if _, err := r.bookings.DeleteMany(ctx, bson.M{"listing_id": id}); err != nil {
		return fmt.Errorf("delete listing bookings: %w", err)
	}
	return nil
}

func (r *ListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ListingRepository) ListBySitter(ctx context.Context, sitterID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"sitter_id": sitterID})
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, sortOldestFirst)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	out := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
