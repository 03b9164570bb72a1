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

	reservationerrors "shuttle/internal/reservations/errors"
	"shuttle/pkg/config"
	mongotx "shuttle/pkg/db/mongo"
	"shuttle/pkg/model"
)

const CollectionName = "Reservations"

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindCurrent(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error)
	FindLatest(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error)
	CountActive(ctx context.Context, scheduleID, date string) (int64, error)
	FindEarliestWaitlisted(ctx context.Context, scheduleID, date string) (*model.Reservation, error)
	SetStatus(ctx context.Context, id, status string, cancelledAt *time.Time) error
	FindByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, error)
	CountByEmployee(ctx context.Context, employeeID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction: a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

// FindCurrent returns the employee's non-cancelled reservation for the
// tuple, whether it holds a seat or waits for one. An employee has at most
// one such reservation at a time.
func (r *mongoReservationRepository) FindCurrent(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id": employeeID,
		"schedule_id": scheduleID,
		"date":        date,
		"status":      bson.M{"$in": []string{model.ReservationActive, model.ReservationWaitlisted}},
	}

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find current reservation: %w", err)
	}

	return &reservation, nil
}

// FindLatest returns the most recently created reservation for the tuple,
// regardless of status. Used for booking-status queries.
func (r *mongoReservationRepository) FindLatest(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id": employeeID,
		"schedule_id": scheduleID,
		"date":        date,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter, opts).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) CountActive(ctx context.Context, scheduleID, date string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"schedule_id": scheduleID,
		"date":        date,
		"status":      model.ReservationActive,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active reservations: %w", err)
	}
	return count, nil
}

// FindEarliestWaitlisted returns the promotion candidate: oldest created_at
// first, ties broken by ascending _id.
func (r *mongoReservationRepository) FindEarliestWaitlisted(ctx context.Context, scheduleID, date string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"schedule_id": scheduleID,
		"date":        date,
		"status":      model.ReservationWaitlisted,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	var reservation model.Reservation
	err := r.collection.FindOne(ctx, filter, opts).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNoWaitlisted
		}
		return nil, fmt.Errorf("failed to find waitlisted reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) SetStatus(ctx context.Context, id, status string, cancelledAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reservationerrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"status": status}}
	if cancelledAt != nil {
		update = bson.M{"$set": bson.M{"status": status, "cancelled_at": cancelledAt}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationerrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) FindByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"employee_id": employeeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
