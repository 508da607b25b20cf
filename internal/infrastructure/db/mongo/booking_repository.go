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

// BookingRepository implements ports.BookingRepository using MongoDB.
type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

// Booking dates are calendar days stored as UTC midnight.
type bookingDoc struct {
	ID        string    `bson:"_id"`
	ListingID string    `bson:"listing_id"`
	OwnerID   string    `bson:"owner_id"`
	StartDate time.Time `bson:"start_date"`
	EndDate   time.Time `bson:"end_date"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d bookingDoc) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:        d.ID,
		ListingID: d.ListingID,
		OwnerID:   d.OwnerID,
		StartDate: d.StartDate.UTC(),
		EndDate:   d.EndDate.UTC(),
		Status:    domain.BookingStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingDoc{
		ID:        b.ID,
		ListingID: b.ListingID,
		OwnerID:   b.OwnerID,
		StartDate: b.StartDate.UTC(),
		EndDate:   b.EndDate.UTC(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateStatus sets status and updated_at on one booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     string(b.Status),
		"updated_at": b.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": b.ID}, update)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Booking, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *BookingRepository) ListByListings(ctx context.Context, listingIDs []string) ([]*domain.Booking, error) {
	if len(listingIDs) == 0 {
		return []*domain.Booking{}, nil
	}
	return r.find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
}

func (r *BookingRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return 0, fmt.Errorf("delete bookings: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, sortOldestFirst)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	out := make([]*domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
