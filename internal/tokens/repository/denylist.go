package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shuttle/pkg/config"
	"shuttle/pkg/model"
)

const CollectionName = "Revoked_tokens"

// DenylistRepository stores revoked token identifiers. Entries carry the
// token's own expiry so a TTL index removes them once the token would have
// died anyway.
type DenylistRepository interface {
	Add(ctx context.Context, entry *model.RevokedToken) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type mongoDenylistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDenylistRepository(cfg *config.Config) DenylistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDenylistRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDenylistRepository) Add(ctx context.Context, entry *model.RevokedToken) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.RevokedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		// Revoking twice is a no-op, not a failure.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *mongoDenylistRepository) Contains(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	err := r.collection.FindOne(ctx, bson.M{"_id": tokenID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
