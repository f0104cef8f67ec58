package repository

import (
	"context"
	"errors"
	"fmt"
	eventtypeserrors "slotwise/internal/eventtypes/errors"
	"slotwise/pkg/config"
	"slotwise/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Event_types"
)

type EventTypeRepository interface {
	Create(ctx context.Context, eventType *model.EventType) error
	FindByID(ctx context.Context, id string) (*model.EventType, error)
	FindByOwner(ctx context.Context, ownerID string, includeHidden bool) ([]*model.EventType, error)
	Update(ctx context.Context, id string, eventType *model.EventType) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoEventTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventTypeRepository(cfg *config.Config) EventTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventTypeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoEventTypeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoEventTypeRepository) Create(ctx context.Context, eventType *model.EventType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	eventType.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, eventType)
	if err != nil {
		return fmt.Errorf("failed to create event type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		eventType.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEventTypeRepository) FindByID(ctx context.Context, id string) (*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventtypeserrors.ErrInvalidID, id)
	}

	var eventType model.EventType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&eventType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventtypeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event type: %w", err)
	}

	return &eventType, nil
}

func (r *mongoEventTypeRepository) FindByOwner(ctx context.Context, ownerID string, includeHidden bool) ([]*model.EventType, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"owner_id": ownerID}
	if !includeHidden {
		filter["hidden"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find event types: %w", err)
	}
	defer cursor.Close(ctx)

	var eventTypes []*model.EventType
	if err = cursor.All(ctx, &eventTypes); err != nil {
		return nil, fmt.Errorf("failed to decode event types: %w", err)
	}

	return eventTypes, nil
}

func (r *mongoEventTypeRepository) Update(ctx context.Context, id string, eventType *model.EventType) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventtypeserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":         eventType.Name,
			"slug":         eventType.Slug,
			"duration_min": eventType.DurationMin,
			"hidden":       eventType.Hidden,
			"description":  eventType.Description,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update event type: %w", err)
	}
	if result.MatchedCount == 0 {
		return eventtypeserrors.ErrNotFound
	}

	return nil
}

func (r *mongoEventTypeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventtypeserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete event type: %w", err)
	}
	if result.DeletedCount == 0 {
		return eventtypeserrors.ErrNotFound
	}

	return nil
}

func (r *mongoEventTypeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create event type indexes: %w", err)
	}
	return nil
}
