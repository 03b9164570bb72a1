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

	scheduleerrors "shuttle/internal/schedules/errors"
	"shuttle/pkg/config"
	"shuttle/pkg/model"
)

const CollectionName = "Schedules"

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	FindByID(ctx context.Context, id string) (*model.Schedule, error)
	FindByBus(ctx context.Context, busID string) ([]*model.Schedule, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Schedule, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, schedule *model.Schedule) error
	Delete(ctx context.Context, id string) error
}

type mongoScheduleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoScheduleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	schedule.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		schedule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoScheduleRepository) FindByID(ctx context.Context, id string) (*model.Schedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleerrors.ErrInvalidID, id)
	}

	var schedule model.Schedule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", scheduleerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return &schedule, nil
}

func (r *mongoScheduleRepository) FindByBus(ctx context.Context, busID string) ([]*model.Schedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"bus_id": busID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules by bus: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.Schedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoScheduleRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Schedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "departure_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.Schedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoScheduleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

func (r *mongoScheduleRepository) Update(ctx context.Context, id string, schedule *model.Schedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"bus_id":         schedule.BusID,
			"departure_time": schedule.DepartureTime,
			"slot":           schedule.Slot,
			"days":           schedule.Days,
			"capacity":       schedule.Capacity,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoScheduleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrNotFound, id)
	}
	return nil
}
