package repository

import (
	"context"
	"errors"
	"fmt"
	profileserrors "slotwise/internal/profiles/errors"
	"slotwise/pkg/config"
	"slotwise/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability_profiles"
)

type ProfileRepository interface {
	// Save fully replaces the owner's profile; there is no partial merge.
	Save(ctx context.Context, profile *model.AvailabilityProfile) error
	FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error)
	Delete(ctx context.Context, ownerID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoProfileRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoProfileRepository) Save(ctx context.Context, profile *model.AvailabilityProfile) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.ID == "" {
		profile.ID = primitive.NewObjectID().Hex()
	}

	filter := bson.M{"owner_id": profile.OwnerID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, profile, opts); err != nil {
		return fmt.Errorf("failed to save availability profile: %w", err)
	}
	return nil
}

func (r *mongoProfileRepository) FindByOwner(ctx context.Context, ownerID string) (*model.AvailabilityProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, profileserrors.ErrInvalidOwnerID
	}

	var profile model.AvailabilityProfile
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profileserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability profile: %w", err)
	}

	return &profile, nil
}

func (r *mongoProfileRepository) Delete(ctx context.Context, ownerID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if ownerID == "" {
		return profileserrors.ErrInvalidOwnerID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete availability profile: %w", err)
	}
	if result.DeletedCount == 0 {
		return profileserrors.ErrNotFound
	}
	return nil
}

func (r *mongoProfileRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create profile indexes: %w", err)
	}
	return nil
}
