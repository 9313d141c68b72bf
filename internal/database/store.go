package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"rebook/internal/apperrors"
	"rebook/internal/repository"
)

// Store is the MongoDB implementation of repository.Store.
type Store struct {
	db      *mongo.Database
	books   *mongo.Collection
	users   *mongo.Collection
	reviews *mongo.Collection
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:      db,
		books:   db.Collection(booksCollection),
		users:   db.Collection(usersCollection),
		reviews: db.Collection(reviewsCollection),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// mapNoDocuments turns mongo.ErrNoDocuments into apperrors.ErrNotFound.
func mapNoDocuments(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mapDuplicateKey turns a unique index violation into the given sentinel.
func mapDuplicateKey(op string, err error, sentinel error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, sentinel)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// userLookupStages joins the user referenced by localField into as. Only the
// projected fields are copied so credentials never leave the users collection.
func userLookupStages(localField, as string, project bson.D, preserveMissing bool) mongo.Pipeline {
	lookup := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + localField}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
				{Key: "$eq", Value: bson.A{"$_id", "$$ref"}},
			}}}}},
			bson.D{{Key: "$project", Value: project}},
		}},
		{Key: "as", Value: as},
	}}}

	unwind := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + as},
		{Key: "preserveNullAndEmptyArrays", Value: preserveMissing},
	}}}

	return mongo.Pipeline{lookup, unwind}
}

func sellerProjection(withContact bool) bson.D {
	project := bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}
	if withContact {
		project = append(project, bson.E{Key: "phone", Value: 1}, bson.E{Key: "createdAt", Value: 1})
	}
	return project
}

// sellerLookupStages joins the seller onto listings. Listings whose seller no
// longer exists drop out of the result.
func sellerLookupStages(withContact bool) mongo.Pipeline {
	return userLookupStages("seller", "sellerInfo", sellerProjection(withContact), false)
}
