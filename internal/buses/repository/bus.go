package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	buserrors "shuttle/internal/buses/errors"
	"shuttle/pkg/config"
	"shuttle/pkg/model"
)

const CollectionName = "Buses"

type BusRepository interface {
	Create(ctx context.Context, bus *model.Bus) error
	FindByID(ctx context.Context, id string) (*model.Bus, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Bus, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, bus *model.Bus) error
	Delete(ctx context.Context, id string) error
}

type mongoBusRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBusRepository(cfg *config.Config) BusRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBusRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBusRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBusRepository) Create(ctx context.Context, bus *model.Bus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	bus.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, bus)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", buserrors.ErrDuplicateRegistration, bus.Registration)
		}
		return fmt.Errorf("failed to create bus: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		bus.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBusRepository) FindByID(ctx context.Context, id string) (*model.Bus, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", buserrors.ErrInvalidID, id)
	}

	var bus model.Bus
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&bus)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", buserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find bus: %w", err)
	}
	return &bus, nil
}

func (r *mongoBusRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Bus, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "registration", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query buses: %w", err)
	}
	defer cursor.Close(ctx)

	var buses []*model.Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, fmt.Errorf("failed to decode buses: %w", err)
	}
	return buses, nil
}

func (r *mongoBusRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count buses: %w", err)
	}
	return count, nil
}

func (r *mongoBusRepository) Update(ctx context.Context, id string, bus *model.Bus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", buserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"registration": bus.Registration,
			"capacity":     bus.Capacity,
			"route":        bus.Route,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", buserrors.ErrDuplicateRegistration, bus.Registration)
		}
		return fmt.Errorf("failed to update bus: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", buserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoBusRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", buserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", buserrors.ErrNotFound, id)
	}
	return nil
}
