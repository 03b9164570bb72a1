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

	employeeerrors "shuttle/internal/employees/errors"
	"shuttle/pkg/config"
	"shuttle/pkg/model"
)

const CollectionName = "Employees"

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)
	FindByWorkforceID(ctx context.Context, workforceID string) (*model.Employee, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, employee *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type mongoEmployeeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEmployeeRepository(cfg *config.Config) EmployeeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEmployeeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoEmployeeRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	employee.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", employeeerrors.ErrDuplicateEmail, employee.Email)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		employee.ID = oid.Hex()
	}
	return nil
}

func (r *mongoEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", employeeerrors.ErrInvalidID, id)
	}

	var employee model.Employee
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", employeeerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &employee, nil
}

func (r *mongoEmployeeRepository) FindByEmail(ctx context.Context, email string) (*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var employee model.Employee
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", employeeerrors.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return &employee, nil
}

func (r *mongoEmployeeRepository) FindByWorkforceID(ctx context.Context, workforceID string) (*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var employee model.Employee
	err := r.collection.FindOne(ctx, bson.M{"workforce_id": workforceID}).Decode(&employee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", employeeerrors.ErrNotFound, workforceID)
		}
		return nil, fmt.Errorf("failed to find employee by workforce ID: %w", err)
	}
	return &employee, nil
}

func (r *mongoEmployeeRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []*model.Employee
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	return employees, nil
}

func (r *mongoEmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

func (r *mongoEmployeeRepository) Update(ctx context.Context, id string, employee *model.Employee) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", employeeerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":          employee.Name,
			"email":         employee.Email,
			"role":          employee.Role,
			"password_hash": employee.PasswordHash,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", employeeerrors.ErrDuplicateEmail, employee.Email)
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", employeeerrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoEmployeeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", employeeerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", employeeerrors.ErrNotFound, id)
	}
	return nil
}
