package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/guard"
	"rebook/internal/models"
	"rebook/internal/repository"
)

const (
	MinRating = 1
	MaxRating = 5
)

type ReviewInput struct {
	Rating  int
	Comment string
}

type ReviewService struct {
	accounts repository.AccountRepository
	reviews  repository.ReviewRepository
}

func NewReviewService(accounts repository.AccountRepository, reviews repository.ReviewRepository) *ReviewService {
	return &ReviewService{accounts: accounts, reviews: reviews}
}

// Submit records the reviewer's single review of target. Uniqueness of the
// (reviewer, target) pair is left to the store so concurrent submissions
// cannot both land.
func (s *ReviewService) Submit(ctx context.Context, reviewer guard.Actor, targetID primitive.ObjectID, in ReviewInput) (models.Review, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return models.Review{}, fmt.Errorf("submit review: %w", apperrors.ErrInvalidRating)
	}
	if err := guard.Authorize(reviewer, guard.ActionSubmitReview, guard.ForReviewTarget(targetID)); err != nil {
		return models.Review{}, fmt.Errorf("submit review: %w", err)
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return models.Review{}, fmt.Errorf("submit review: comment is required: %w", apperrors.ErrInvalidInput)
	}
	if _, err := s.accounts.FindAccountByID(ctx, targetID); err != nil {
		return models.Review{}, fmt.Errorf("submit review: %w", err)
	}

	review := models.Review{
		ReviewerID: reviewer.ID,
		TargetID:   targetID,
		Rating:     in.Rating,
		Comment:    comment,
		CreatedAt:  nowUTC(),
	}
	if err := s.reviews.InsertReview(ctx, &review); err != nil {
		return models.Review{}, fmt.Errorf("submit review: %w", err)
	}
	return review, nil
}

// ForTarget lists the target's reviews newest first.
func (s *ReviewService) ForTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.ReviewWithReviewer, error) {
	reviews, err := s.reviews.ListReviewsForTarget(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Summary computes the target's rating from the stored reviews.
func (s *ReviewService) Summary(ctx context.Context, targetID primitive.ObjectID) (models.RatingSummary, error) {
	summary, err := s.reviews.RatingSummary(ctx, targetID)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("rating summary: %w", err)
	}
	return summary, nil
}
