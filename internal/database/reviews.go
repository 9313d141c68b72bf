package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"rebook/internal/apperrors"
	"rebook/internal/models"
)

// InsertReview relies on the reviewer_targetUser_unique index; there is no
// read before the write.
func (s *Store) InsertReview(ctx context.Context, review *models.Review) error {
	res, err := s.reviews.InsertOne(ctx, review)
	if err != nil {
		op := fmt.Sprintf("insert review by %s for %s", review.ReviewerID.Hex(), review.TargetID.Hex())
		return mapDuplicateKey(op, err, apperrors.ErrAlreadyReviewed)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = id
	}
	return nil
}

func (s *Store) ListReviewsForTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.ReviewWithReviewer, error) {
	cursor, err := s.reviews.Aggregate(ctx, reviewsPipeline(targetID))
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", targetID.Hex(), err)
	}
	reviews, err := decodeAll[models.ReviewWithReviewer](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("decode reviews for %s: %w", targetID.Hex(), err)
	}
	return reviews, nil
}

func (s *Store) RatingSummary(ctx context.Context, targetID primitive.ObjectID) (models.RatingSummary, error) {
	cursor, err := s.reviews.Aggregate(ctx, ratingPipeline(targetID))
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("rating summary for %s: %w", targetID.Hex(), err)
	}

	type group struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	groups, err := decodeAll[group](ctx, cursor)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("decode rating summary for %s: %w", targetID.Hex(), err)
	}
	if len(groups) == 0 {
		return models.NewRatingSummary(0, 0), nil
	}
	return models.NewRatingSummary(groups[0].Average, groups[0].Count), nil
}

// reviewsPipeline lists a target's reviews newest first with the reviewer's
// name. Reviews by deleted accounts are kept with an empty name.
func reviewsPipeline(targetID primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "targetUser", Value: targetID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = append(pipeline, userLookupStages("reviewer", "reviewerDoc", bson.D{{Key: "name", Value: 1}}, true)...)
	return append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.D{{Key: "reviewerName", Value: bson.D{
			{Key: "$ifNull", Value: bson.A{"$reviewerDoc.name", ""}},
		}}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "reviewerDoc", Value: 0}}}},
	)
}

func ratingPipeline(targetID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "targetUser", Value: targetID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}
