package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/models"
)

func TestSubmitReviewRejectsSecondReview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	reviewer := seedAccount(t, repo, "Buyer", false)
	seller := seedAccount(t, repo, "Seller", false)

	review, err := svc.Reviews.Submit(ctx, actorOf(reviewer), seller.ID, ReviewInput{Rating: 5, Comment: "Great seller"})
	require.NoError(t, err)
	require.False(t, review.ID.IsZero())

	_, err = svc.Reviews.Submit(ctx, actorOf(reviewer), seller.ID, ReviewInput{Rating: 1, Comment: "Changed my mind"})
	require.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)

	summary, err := svc.Reviews.Summary(ctx, seller.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Count)
	require.InDelta(t, 5.0, *summary.Average, 1e-9)
}

func TestSubmitReviewRejectsSelfReview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	user := seedAccount(t, repo, "Me", false)

	_, err := svc.Reviews.Submit(ctx, actorOf(user), user.ID, ReviewInput{Rating: 5, Comment: "I am great"})
	require.ErrorIs(t, err, apperrors.ErrSelfReviewForbidden)

	reviews, err := repo.ListReviewsForTarget(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, reviews)
}

func TestSubmitReviewSelfCheckPrecedesStoredReview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	user := seedAccount(t, repo, "Me", false)

	// a self review left behind by an older client
	legacy := models.Review{ReviewerID: user.ID, TargetID: user.ID, Rating: 5, Comment: "x"}
	require.NoError(t, repo.InsertReview(ctx, &legacy))

	_, err := svc.Reviews.Submit(ctx, actorOf(user), user.ID, ReviewInput{Rating: 5, Comment: "again"})
	require.ErrorIs(t, err, apperrors.ErrSelfReviewForbidden)
	require.False(t, errors.Is(err, apperrors.ErrAlreadyReviewed))
}

func TestSubmitReviewConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	reviewer := seedAccount(t, repo, "Buyer", false)
	seller := seedAccount(t, repo, "Seller", false)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := svc.Reviews.Submit(ctx, actorOf(reviewer), seller.ID, ReviewInput{Rating: rating, Comment: "Quick handover"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrAlreadyReviewed):
				dupes++
			}
		}(i%MaxRating + 1)
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, dupes)

	reviews, err := repo.ListReviewsForTarget(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	summary, err := svc.Reviews.Summary(ctx, seller.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Count)
}

func TestSubmitReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	reviewer := seedAccount(t, repo, "Buyer", false)
	seller := seedAccount(t, repo, "Seller", false)

	tests := []struct {
		name   string
		target primitive.ObjectID
		in     ReviewInput
		want   error
	}{
		{"rating too low", seller.ID, ReviewInput{Rating: 0, Comment: "x"}, apperrors.ErrInvalidRating},
		{"rating too high", seller.ID, ReviewInput{Rating: 6, Comment: "x"}, apperrors.ErrInvalidRating},
		{"missing comment", seller.ID, ReviewInput{Rating: 4, Comment: "  "}, apperrors.ErrInvalidInput},
		{"unknown target", primitive.NewObjectID(), ReviewInput{Rating: 4, Comment: "ok"}, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reviews.Submit(ctx, actorOf(reviewer), tt.target, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRatingSummaryComputedAtRead(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	seller := seedAccount(t, repo, "Seller", false)

	empty, err := svc.Reviews.Summary(ctx, seller.ID)
	require.NoError(t, err)
	require.Nil(t, empty.Average)
	require.Equal(t, models.NoRatingLabel, empty.Label)

	for _, rating := range []int{5, 3, 4} {
		reviewer := seedAccount(t, repo, "Buyer", false)
		_, err := svc.Reviews.Submit(ctx, actorOf(reviewer), seller.ID, ReviewInput{Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	summary, err := svc.Reviews.Summary(ctx, seller.ID)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Count)
	require.InDelta(t, 4.0, *summary.Average, 1e-9)
	require.Equal(t, "4.0", summary.Label)
}
