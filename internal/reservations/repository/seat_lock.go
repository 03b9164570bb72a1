package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shuttle/pkg/config"
	"shuttle/pkg/model"
)

const LockCollectionName = "Seat_locks"

// SeatLockRepository provides the advisory lock serializing reserve/cancel
// on one (schedule, date) key.
type SeatLockRepository interface {
	Acquire(ctx context.Context, lock *model.SeatLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoSeatLockRepository struct {
	collection *mongo.Collection
}

func NewMongoSeatLockRepository(cfg *config.Config) SeatLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSeatLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock document. A duplicate key error means another
// request holds the lock.
func (r *mongoSeatLockRepository) Acquire(ctx context.Context, lock *model.SeatLock) error {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	return err
}

func (r *mongoSeatLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
