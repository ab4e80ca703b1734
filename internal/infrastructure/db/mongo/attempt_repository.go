package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

const collectionAttempts = "verification_attempts"

// AttemptRepository implements ports.AttemptRepository using MongoDB.
type AttemptRepository struct {
	col *mongo.Collection
}

var _ ports.AttemptRepository = (*AttemptRepository)(nil)

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{col: db.Collection(collectionAttempts)}
}

// Insert persists a verification attempt to the audit collection.
func (r *AttemptRepository) Insert(ctx context.Context, a *domain.VerificationAttempt) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// ListByLocation returns up to limit attempts for a location, newest first.
func (r *AttemptRepository) ListByLocation(ctx context.Context, locationID string, limit int) ([]domain.VerificationAttempt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "attempted_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"location_id": locationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find attempts: %w", err)
	}

	out := make([]domain.VerificationAttempt, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the lookup index on the attempts collection.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location_id", Value: 1}, {Key: "attempted_at", Value: -1}},
	})
	return err
}
