package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the store's invariants depend on. The
// unique indexes are what make duplicate emails and duplicate reviews
// impossible under concurrent writes. Every collection is attempted and the
// failures are joined.
func EnsureIndexes(db *mongo.Database) error {
	return errors.Join(
		EnsureBookIndexes(db),
		EnsureUserIndexes(db),
		EnsureReviewIndexes(db),
	)
}

func EnsureBookIndexes(db *mongo.Database) error {
	return createIndexes(db, booksCollection, bookIndexModels())
}

func EnsureUserIndexes(db *mongo.Database) error {
	return createIndexes(db, usersCollection, userIndexModels())
}

func EnsureReviewIndexes(db *mongo.Database) error {
	return createIndexes(db, reviewsCollection, reviewIndexModels())
}

func bookIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("location_2dsphere"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "seller", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("seller_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
	}
}

func userIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
	}
}

func reviewIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "reviewer", Value: 1}, {Key: "targetUser", Value: 1}},
			Options: options.Index().
				SetName("reviewer_targetUser_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "targetUser", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("targetUser_createdAt"),
		},
	}
}

func createIndexes(db *mongo.Database, collection string, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Str("collection", collection).Int("count", len(models)).Msg("ensuring indexes")
	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("index creation failed")
		return fmt.Errorf("%s indexes: %w", collection, err)
	}
	log.Info().Str("collection", collection).Strs("indexes", names).Msg("indexes ready")
	return nil
}
