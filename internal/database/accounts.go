package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rebook/internal/apperrors"
	"rebook/internal/models"
)

func (s *Store) InsertAccount(ctx context.Context, user *models.User) error {
	if user.Cart == nil {
		// $push refuses to append to a null field
		user.Cart = []primitive.ObjectID{}
	}
	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return mapDuplicateKey("insert account "+user.Email, err, apperrors.ErrEmailTaken)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, mapNoDocuments("find account "+id.Hex(), err)
	}
	return user, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	users, err := decodeAll[models.User](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return users, nil
}

// DeleteNonAdminAccount carries the admin check in the delete filter itself.
func (s *Store) DeleteNonAdminAccount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id, "isAdmin": bson.M{"$ne": true}})
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id.Hex(), err)
	}
	if res.DeletedCount > 0 {
		return nil
	}

	if _, err := s.FindAccountByID(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return fmt.Errorf("delete account %s: %w", id.Hex(), apperrors.ErrCannotDeleteAdmin)
}

// AddCartEntry pushes bookID only when the cart does not yet hold it. The
// condition and the push are one single-document write, so two concurrent
// adds of the same listing cannot both succeed.
func (s *Store) AddCartEntry(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"_id": userID, "cart": bson.M{"$ne": bookID}}
	update := bson.M{
		"$push": bson.M{"cart": bookID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	cart, err := s.updateCart(ctx, filter, update)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("add cart entry %s: %w", bookID.Hex(), err)
	}

	// nothing matched: either the user is gone or the entry already exists
	count, countErr := s.users.CountDocuments(ctx, bson.M{"_id": userID})
	if countErr != nil {
		return nil, fmt.Errorf("add cart entry %s: %w", bookID.Hex(), countErr)
	}
	if count == 0 {
		return nil, fmt.Errorf("add cart entry for %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	return nil, fmt.Errorf("add cart entry %s for %s: %w", bookID.Hex(), userID.Hex(), apperrors.ErrDuplicateCartEntry)
}

func (s *Store) RemoveCartEntry(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	update := bson.M{
		"$pull": bson.M{"cart": bookID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	cart, err := s.updateCart(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return nil, mapNoDocuments("remove cart entry for "+userID.Hex(), err)
	}
	return cart, nil
}

func (s *Store) updateCart(ctx context.Context, filter, update bson.M) ([]primitive.ObjectID, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"cart": 1})

	var doc struct {
		Cart []primitive.ObjectID `bson:"cart"`
	}
	if err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Cart == nil {
		doc.Cart = []primitive.ObjectID{}
	}
	return doc.Cart, nil
}
