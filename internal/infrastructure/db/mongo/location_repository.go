package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

const collectionLocations = "locations"

// LocationRepository implements ports.LocationRepository using MongoDB.
type LocationRepository struct {
	col *mongo.Collection
}

var _ ports.LocationRepository = (*LocationRepository)(nil)

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{col: db.Collection(collectionLocations)}
}

// Create inserts a new location document keyed by its ID.
func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, loc); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// FindByID retrieves a location by ID.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var loc domain.Location
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&loc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// Update replaces the whole document. Verifiers touch address, geo and
// attempt fields at once, so a full replace keeps them consistent.
func (r *LocationRepository) Update(ctx context.Context, loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": loc.ID}, loc)
	if err != nil {
		return fmt.Errorf("replace location: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

// EnsureIndexes creates the secondary indexes on the locations collection.
func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "country", Value: 1}, {Key: "postal_code", Value: 1}}},
		{Keys: bson.D{{Key: "standardize_attempted_at", Value: -1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
