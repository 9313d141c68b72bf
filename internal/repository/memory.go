package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/geo"
	"rebook/internal/models"
)

type reviewKey struct {
	reviewer primitive.ObjectID
	target   primitive.ObjectID
}

// MemoryRepo is a concurrency-safe in-memory Store. Every method holds the
// lock for its whole duration, which makes each one atomic in the same way a
// single-document MongoDB write is.
type MemoryRepo struct {
	mu sync.RWMutex

	books     map[primitive.ObjectID]models.Book
	bookOrder []primitive.ObjectID

	users  map[primitive.ObjectID]models.User
	emails map[string]primitive.ObjectID

	reviews map[reviewKey]models.Review
}

// NewMemoryRepo creates an empty in-memory store.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		books:   make(map[primitive.ObjectID]models.Book),
		users:   make(map[primitive.ObjectID]models.User),
		emails:  make(map[string]primitive.ObjectID),
		reviews: make(map[reviewKey]models.Review),
	}
}

var _ Store = (*MemoryRepo)(nil)

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ---- books ----

func (r *MemoryRepo) InsertBook(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	if _, exists := r.books[book.ID]; exists {
		return fmt.Errorf("insert book %s: duplicate id", book.ID.Hex())
	}
	r.books[book.ID] = copyBook(*book)
	r.bookOrder = append(r.bookOrder, book.ID)
	return nil
}

func (r *MemoryRepo) FindBookByID(_ context.Context, id primitive.ObjectID) (models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return models.Book{}, fmt.Errorf("find book %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return copyBook(book), nil
}

func (r *MemoryRepo) FindBookWithSeller(_ context.Context, id primitive.ObjectID) (models.BookResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return models.BookResult{}, fmt.Errorf("find book %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	seller, ok := r.users[book.SellerID]
	if !ok {
		return models.BookResult{}, fmt.Errorf("find book %s seller: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return models.BookResult{Book: copyBook(book), Seller: seller.Summary(true)}, nil
}

func (r *MemoryRepo) UpdateBook(_ context.Context, id primitive.ObjectID, update models.BookUpdate) (models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return models.Book{}, fmt.Errorf("update book %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	update.Apply(&book)
	book.UpdatedAt = time.Now().UTC()
	r.books[id] = copyBook(book)
	return copyBook(book), nil
}

func (r *MemoryRepo) DeleteBook(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return fmt.Errorf("delete book %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	delete(r.books, id)
	for i, existing := range r.bookOrder {
		if existing == id {
			r.bookOrder = append(r.bookOrder[:i], r.bookOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo) ListRecent(_ context.Context) ([]models.BookResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]models.BookResult, 0, len(r.books))
	for _, id := range r.bookOrder {
		book := r.books[id]
		seller, ok := r.users[book.SellerID]
		if !ok {
			continue
		}
		results = append(results, models.BookResult{Book: copyBook(book), Seller: seller.Summary(false)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return newerFirst(results[i].Book, results[j].Book)
	})
	return results, nil
}

func (r *MemoryRepo) ListNear(_ context.Context, p geo.Point, maxMeters float64) ([]models.BookResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]models.BookResult, 0)
	for _, id := range r.bookOrder {
		book := r.books[id]
		if book.Location == nil || len(book.Location.Coordinates) != 2 {
			continue
		}
		distance := geo.Distance(p, geo.Point{Lng: book.Location.Lng(), Lat: book.Location.Lat()})
		if distance > maxMeters {
			continue
		}
		seller, ok := r.users[book.SellerID]
		if !ok {
			continue
		}
		d := distance
		results = append(results, models.BookResult{
			Book:     copyBook(book),
			Seller:   seller.Summary(true),
			Distance: &d,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Distance < *results[j].Distance
	})
	return results, nil
}

func (r *MemoryRepo) ListSimilar(_ context.Context, category models.Category, exclude primitive.ObjectID, limit int) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]models.Book, 0, limit)
	for _, id := range r.bookOrder {
		if len(books) >= limit {
			break
		}
		book := r.books[id]
		if id == exclude || book.Category != category {
			continue
		}
		books = append(books, copyBook(book))
	}
	return books, nil
}

func (r *MemoryRepo) ListBySeller(_ context.Context, sellerID primitive.ObjectID) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]models.Book, 0)
	for _, id := range r.bookOrder {
		book := r.books[id]
		if book.SellerID == sellerID {
			books = append(books, copyBook(book))
		}
	}
	sort.SliceStable(books, func(i, j int) bool {
		return newerFirst(books[i], books[j])
	})
	return books, nil
}

func (r *MemoryRepo) FindBooksWithSellers(_ context.Context, ids []primitive.ObjectID) ([]models.BookResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]models.BookResult, 0, len(ids))
	for _, id := range ids {
		book, ok := r.books[id]
		if !ok {
			continue
		}
		seller, ok := r.users[book.SellerID]
		if !ok {
			continue
		}
		results = append(results, models.BookResult{Book: copyBook(book), Seller: seller.Summary(true)})
	}
	return results, nil
}

// ---- accounts ----

func (r *MemoryRepo) InsertAccount(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, taken := r.emails[email]; taken {
		return fmt.Errorf("insert account %s: %w", email, apperrors.ErrEmailTaken)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Cart == nil {
		user.Cart = []primitive.ObjectID{}
	}
	r.users[user.ID] = copyUser(*user)
	r.emails[email] = user.ID
	return nil
}

func (r *MemoryRepo) FindAccountByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("find account %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return copyUser(user), nil
}

func (r *MemoryRepo) ListAccounts(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt) ||
			(users[i].CreatedAt.Equal(users[j].CreatedAt) && users[i].ID.Hex() < users[j].ID.Hex())
	})
	return users, nil
}

func (r *MemoryRepo) DeleteNonAdminAccount(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("delete account %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	if user.IsAdmin {
		return fmt.Errorf("delete account %s: %w", id.Hex(), apperrors.ErrCannotDeleteAdmin)
	}
	delete(r.users, id)
	delete(r.emails, strings.ToLower(user.Email))
	return nil
}

func (r *MemoryRepo) AddCartEntry(_ context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("add cart entry for %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	for _, existing := range user.Cart {
		if existing == bookID {
			return nil, fmt.Errorf("add cart entry %s for %s: %w", bookID.Hex(), userID.Hex(), apperrors.ErrDuplicateCartEntry)
		}
	}
	user.Cart = append(user.Cart, bookID)
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = copyUser(user)
	return copyIDs(user.Cart), nil
}

func (r *MemoryRepo) RemoveCartEntry(_ context.Context, userID, bookID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("remove cart entry for %s: %w", userID.Hex(), apperrors.ErrNotFound)
	}
	kept := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, existing := range user.Cart {
		if existing != bookID {
			kept = append(kept, existing)
		}
	}
	if len(kept) != len(user.Cart) {
		user.Cart = kept
		user.UpdatedAt = time.Now().UTC()
		r.users[userID] = copyUser(user)
	}
	return copyIDs(kept), nil
}

// ---- reviews ----

func (r *MemoryRepo) InsertReview(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reviewKey{reviewer: review.ReviewerID, target: review.TargetID}
	if _, exists := r.reviews[key]; exists {
		return fmt.Errorf("insert review by %s for %s: %w", review.ReviewerID.Hex(), review.TargetID.Hex(), apperrors.ErrAlreadyReviewed)
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	r.reviews[key] = *review
	return nil
}

func (r *MemoryRepo) ListReviewsForTarget(_ context.Context, targetID primitive.ObjectID) ([]models.ReviewWithReviewer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]models.ReviewWithReviewer, 0)
	for key, review := range r.reviews {
		if key.target != targetID {
			continue
		}
		entry := models.ReviewWithReviewer{Review: review}
		if reviewer, ok := r.users[key.reviewer]; ok {
			entry.ReviewerName = reviewer.Name
		}
		reviews = append(reviews, entry)
	}
	sort.Slice(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() > b.ID.Hex()
	})
	return reviews, nil
}

func (r *MemoryRepo) RatingSummary(_ context.Context, targetID primitive.ObjectID) (models.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]int, 0)
	for key, review := range r.reviews {
		if key.target == targetID {
			ratings = append(ratings, review.Rating)
		}
	}
	return models.SummarizeRatings(ratings), nil
}

// ---- helpers ----

// newerFirst orders by createdAt descending, then by id descending so equal
// timestamps still sort deterministically.
func newerFirst(a, b models.Book) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Hex() > b.ID.Hex()
}

func copyBook(b models.Book) models.Book {
	if b.Location != nil {
		loc := *b.Location
		loc.Coordinates = append([]float64(nil), b.Location.Coordinates...)
		b.Location = &loc
	}
	return b
}

func copyUser(u models.User) models.User {
	u.Cart = copyIDs(u.Cart)
	return u
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append(make([]primitive.ObjectID, 0, len(ids)), ids...)
}
