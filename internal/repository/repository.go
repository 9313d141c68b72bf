package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/geo"
	"rebook/internal/models"
)

// BookRepository persists listings. Lookups of absent ids return
// apperrors.ErrNotFound.
type BookRepository interface {
	InsertBook(ctx context.Context, book *models.Book) error
	FindBookByID(ctx context.Context, id primitive.ObjectID) (models.Book, error)
	FindBookWithSeller(ctx context.Context, id primitive.ObjectID) (models.BookResult, error)
	UpdateBook(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (models.Book, error)
	DeleteBook(ctx context.Context, id primitive.ObjectID) error

	// ListRecent returns every listing newest first, joined with seller name and email.
	ListRecent(ctx context.Context) ([]models.BookResult, error)
	// ListNear returns located listings within maxMeters of p, nearest first,
	// annotated with their distance and joined with the seller's public record.
	ListNear(ctx context.Context, p geo.Point, maxMeters float64) ([]models.BookResult, error)
	ListSimilar(ctx context.Context, category models.Category, exclude primitive.ObjectID, limit int) ([]models.Book, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Book, error)
	// FindBooksWithSellers returns the listings for ids in the order given,
	// joined with seller contact details. Missing listings are skipped.
	FindBooksWithSellers(ctx context.Context, ids []primitive.ObjectID) ([]models.BookResult, error)
}

// AccountRepository persists accounts and their cart sets.
type AccountRepository interface {
	// InsertAccount fails with apperrors.ErrEmailTaken when the email is in use.
	InsertAccount(ctx context.Context, user *models.User) error
	FindAccountByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	ListAccounts(ctx context.Context) ([]models.User, error)
	// DeleteNonAdminAccount removes the account unless it is an admin
	// (apperrors.ErrCannotDeleteAdmin).
	DeleteNonAdminAccount(ctx context.Context, id primitive.ObjectID) error

	// AddCartEntry atomically appends bookID unless already present
	// (apperrors.ErrDuplicateCartEntry) and returns the resulting cart.
	AddCartEntry(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error)
	// RemoveCartEntry removes bookID if present and returns the resulting cart.
	RemoveCartEntry(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// ReviewRepository persists seller reviews.
type ReviewRepository interface {
	// InsertReview fails with apperrors.ErrAlreadyReviewed when the
	// (reviewer, target) pair already has a review.
	InsertReview(ctx context.Context, review *models.Review) error
	ListReviewsForTarget(ctx context.Context, targetID primitive.ObjectID) ([]models.ReviewWithReviewer, error)
	RatingSummary(ctx context.Context, targetID primitive.ObjectID) (models.RatingSummary, error)
}

// Store is the full system of record.
type Store interface {
	BookRepository
	AccountRepository
	ReviewRepository
	Ping(ctx context.Context) error
}
