package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/geo"
	"rebook/internal/guard"
	"rebook/internal/models"
	"rebook/internal/repository"
)

const unknownCity = "unknown"

// ListingInput is a new listing as submitted by a seller. The image must
// already be held by the blob store; Lat and Lng are optional but come together.
type ListingInput struct {
	Title       string
	Author      string
	Price       float64
	Condition   string
	Category    string
	Description string
	City        string
	Lat         *float64
	Lng         *float64
	Image       *models.Image
}

// ListingPatch is a partial listing update; nil fields are left unchanged.
type ListingPatch struct {
	Title       *string
	Author      *string
	Price       *float64
	Condition   *string
	Category    *string
	Description *string
	City        *string
	Lat         *float64
	Lng         *float64
	Image       *models.Image
}

type ListingService struct {
	books repository.BookRepository
}

func NewListingService(books repository.BookRepository) *ListingService {
	return &ListingService{books: books}
}

func (s *ListingService) Create(ctx context.Context, actor guard.Actor, in ListingInput) (models.Book, error) {
	if actor.ID.IsZero() {
		return models.Book{}, fmt.Errorf("create listing: %w", apperrors.ErrUnauthenticated)
	}

	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	if title == "" || author == "" {
		return models.Book{}, fmt.Errorf("create listing: title and author are required: %w", apperrors.ErrInvalidInput)
	}
	if in.Price <= 0 {
		return models.Book{}, fmt.Errorf("create listing: price must be positive: %w", apperrors.ErrInvalidInput)
	}
	condition, ok := models.ParseCondition(in.Condition)
	if !ok {
		return models.Book{}, fmt.Errorf("create listing: unknown condition %q: %w", in.Condition, apperrors.ErrInvalidInput)
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return models.Book{}, fmt.Errorf("create listing: unknown category %q: %w", in.Category, apperrors.ErrInvalidInput)
	}
	image, err := validateImage(in.Image)
	if err != nil {
		return models.Book{}, fmt.Errorf("create listing: %w", err)
	}
	location, err := locationFrom(in.Lat, in.Lng)
	if err != nil {
		return models.Book{}, fmt.Errorf("create listing: %w", err)
	}

	now := nowUTC()
	book := models.Book{
		Title:       title,
		Author:      author,
		Price:       in.Price,
		Condition:   condition,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
		City:        normalizeCity(in.City),
		Location:    location,
		SellerID:    actor.ID,
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.books.InsertBook(ctx, &book); err != nil {
		return models.Book{}, fmt.Errorf("create listing: %w", err)
	}
	return book, nil
}

// Update applies patch to the listing when actor owns it or is an admin. The
// seller is never changed.
func (s *ListingService) Update(ctx context.Context, actor guard.Actor, id primitive.ObjectID, patch ListingPatch) (models.Book, error) {
	existing, err := s.books.FindBookByID(ctx, id)
	if err != nil {
		return models.Book{}, fmt.Errorf("update listing: %w", err)
	}
	if err := guard.Authorize(actor, guard.ActionUpdateListing, guard.ForListing(existing.SellerID)); err != nil {
		return models.Book{}, fmt.Errorf("update listing: %w", err)
	}

	update, err := patch.toUpdate()
	if err != nil {
		return models.Book{}, fmt.Errorf("update listing: %w", err)
	}
	book, err := s.books.UpdateBook(ctx, id, update)
	if err != nil {
		return models.Book{}, fmt.Errorf("update listing: %w", err)
	}
	return book, nil
}

func (s *ListingService) Delete(ctx context.Context, actor guard.Actor, id primitive.ObjectID) error {
	existing, err := s.books.FindBookByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if err := guard.Authorize(actor, guard.ActionDeleteListing, guard.ForListing(existing.SellerID)); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if err := s.books.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

func (p ListingPatch) toUpdate() (models.BookUpdate, error) {
	var update models.BookUpdate

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return update, fmt.Errorf("title cannot be empty: %w", apperrors.ErrInvalidInput)
		}
		update.Title = &title
	}
	if p.Author != nil {
		author := strings.TrimSpace(*p.Author)
		if author == "" {
			return update, fmt.Errorf("author cannot be empty: %w", apperrors.ErrInvalidInput)
		}
		update.Author = &author
	}
	if p.Price != nil {
		if *p.Price <= 0 {
			return update, fmt.Errorf("price must be positive: %w", apperrors.ErrInvalidInput)
		}
		price := *p.Price
		update.Price = &price
	}
	if p.Condition != nil {
		condition, ok := models.ParseCondition(*p.Condition)
		if !ok {
			return update, fmt.Errorf("unknown condition %q: %w", *p.Condition, apperrors.ErrInvalidInput)
		}
		update.Condition = &condition
	}
	if p.Category != nil {
		category, ok := models.ParseCategory(*p.Category)
		if !ok {
			return update, fmt.Errorf("unknown category %q: %w", *p.Category, apperrors.ErrInvalidInput)
		}
		update.Category = &category
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		update.Description = &description
	}
	if p.City != nil {
		city := normalizeCity(*p.City)
		update.City = &city
	}
	if p.Lat != nil || p.Lng != nil {
		location, err := locationFrom(p.Lat, p.Lng)
		if err != nil {
			return update, err
		}
		update.Location = location
	}
	if p.Image != nil {
		image, err := validateImage(p.Image)
		if err != nil {
			return update, err
		}
		update.Image = &image
	}
	return update, nil
}

func normalizeCity(city string) string {
	normalized := strings.ToLower(strings.TrimSpace(city))
	if normalized == "" {
		return unknownCity
	}
	return normalized
}

func validateImage(image *models.Image) (models.Image, error) {
	if image == nil || strings.TrimSpace(image.URL) == "" {
		return models.Image{}, fmt.Errorf("image is required: %w", apperrors.ErrInvalidInput)
	}
	return models.Image{
		PublicID: strings.TrimSpace(image.PublicID),
		URL:      strings.TrimSpace(image.URL),
	}, nil
}

// locationFrom returns nil when neither coordinate is given.
func locationFrom(lat, lng *float64) (*models.GeoPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("both lat and lng are required: %w", apperrors.ErrInvalidInput)
	}
	p := geo.Point{Lng: *lng, Lat: *lat}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrInvalidInput)
	}
	return models.NewGeoPoint(p.Lng, p.Lat), nil
}
