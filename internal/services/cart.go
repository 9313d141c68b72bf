package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/models"
	"rebook/internal/repository"
)

// CartService keeps each user's cart a set of listing ids in insertion order.
type CartService struct {
	books    repository.BookRepository
	accounts repository.AccountRepository
}

func NewCartService(books repository.BookRepository, accounts repository.AccountRepository) *CartService {
	return &CartService{books: books, accounts: accounts}
}

// Add appends bookID to the cart. A listing already in the cart is rejected
// with apperrors.ErrDuplicateCartEntry, never added twice.
func (s *CartService) Add(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if _, err := s.books.FindBookByID(ctx, bookID); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	cart, err := s.accounts.AddCartEntry(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return cart, nil
}

// Remove drops bookID from the cart; an id not in the cart is a no-op.
func (s *CartService) Remove(ctx context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cart, err := s.accounts.RemoveCartEntry(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return cart, nil
}

// Get returns the cart's listings in cart order with seller contact details.
// Listings deleted since they were added are skipped.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) ([]models.BookResult, error) {
	user, err := s.accounts.FindAccountByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	results, err := s.books.FindBooksWithSellers(ctx, user.Cart)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return results, nil
}
