package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/geo"
	"rebook/internal/models"
	"rebook/internal/repository"
)

// SimilarLimit caps the number of related listings returned.
const SimilarLimit = 4

// DiscoveryQuery selects the ranking mode. A nil Point ranks by recency.
type DiscoveryQuery struct {
	Point *geo.Point
}

type DiscoveryService struct {
	books repository.BookRepository
}

func NewDiscoveryService(books repository.BookRepository) *DiscoveryService {
	return &DiscoveryService{books: books}
}

// Discover returns listings near the query point, nearest first and bounded by
// geo.MaxDiscoveryRadiusMeters, or every listing newest first when the query
// carries no point. An empty result is not an error.
func (s *DiscoveryService) Discover(ctx context.Context, q DiscoveryQuery) ([]models.BookResult, error) {
	if q.Point == nil {
		results, err := s.books.ListRecent(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover recent: %w", err)
		}
		return results, nil
	}

	if err := q.Point.Validate(); err != nil {
		return nil, fmt.Errorf("discover near: %w", err)
	}
	results, err := s.books.ListNear(ctx, *q.Point, geo.MaxDiscoveryRadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("discover near: %w", err)
	}
	return results, nil
}

func (s *DiscoveryService) Get(ctx context.Context, id primitive.ObjectID) (models.BookResult, error) {
	result, err := s.books.FindBookWithSeller(ctx, id)
	if err != nil {
		return models.BookResult{}, fmt.Errorf("get listing: %w", err)
	}
	return result, nil
}

// Similar returns up to SimilarLimit other listings in category. An unknown
// category matches nothing.
func (s *DiscoveryService) Similar(ctx context.Context, id primitive.ObjectID, category string) ([]models.Book, error) {
	parsed, ok := models.ParseCategory(category)
	if !ok {
		return []models.Book{}, nil
	}
	books, err := s.books.ListSimilar(ctx, parsed, id, SimilarLimit)
	if err != nil {
		return nil, fmt.Errorf("similar listings: %w", err)
	}
	return books, nil
}

// Mine returns the caller's own listings, newest first.
func (s *DiscoveryService) Mine(ctx context.Context, userID primitive.ObjectID) ([]models.Book, error) {
	books, err := s.books.ListBySeller(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("my listings: %w", err)
	}
	return books, nil
}
