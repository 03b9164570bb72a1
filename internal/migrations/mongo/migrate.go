package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shuttle/internal/migrations/mongo/validators"
)

var (
	EmployeesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workforce_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	BusesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "registration", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	SchedulesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "bus_id", Value: 1}, {Key: "departure_time", Value: 1}}},
	}

	// The partial unique index is the storage-level backstop for the
	// one-active-booking-per-employee rule; the seat ledger enforces it
	// first, this catches anything that slips past.
	ReservationsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "employee_id", Value: 1},
				{Key: "schedule_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "active"}),
		},
		{Keys: bson.D{
			{Key: "schedule_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
			{Key: "created_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "employee_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}

	// TTL reaps locks orphaned by a crashed process.
	SeatLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	// Denylist entries expire with the tokens they revoke.
	RevokedTokensIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running shuttle Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Employees": {
			Indexes:   EmployeesIndexes,
			Validator: validators.EmployeeValidator,
		},
		"Buses": {
			Indexes:   BusesIndexes,
			Validator: validators.BusValidator,
		},
		"Schedules": {
			Indexes:   SchedulesIndexes,
			Validator: validators.ScheduleValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Seat_locks": {
			Indexes:   SeatLocksIndexes,
			Validator: validators.SeatLockValidator,
		},
		"Revoked_tokens": {
			Indexes:   RevokedTokensIndexes,
			Validator: validators.RevokedTokenValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
