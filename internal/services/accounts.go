package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"rebook/internal/apperrors"
	"rebook/internal/guard"
	"rebook/internal/models"
	"rebook/internal/repository"
)

const minPasswordLength = 6

var validate = validator.New()

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Profile is the public view of an account with its listings and reviews.
type Profile struct {
	User     models.PublicUser           `json:"user"`
	Listings []models.Book               `json:"books"`
	Reviews  []models.ReviewWithReviewer `json:"reviews"`
	Rating   models.RatingSummary        `json:"rating"`
}

type AccountService struct {
	accounts repository.AccountRepository
	books    repository.BookRepository
	reviews  *ReviewService
	hashCost int
}

func NewAccountService(accounts repository.AccountRepository, books repository.BookRepository, reviews *ReviewService) *AccountService {
	return &AccountService{accounts: accounts, books: books, reviews: reviews, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AccountService) WithHashCost(cost int) *AccountService {
	s.hashCost = cost
	return s
}

// Register creates a non-admin account. Email uniqueness is enforced by the
// store.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if name == "" || email == "" || in.Password == "" || phone == "" {
		return models.User{}, fmt.Errorf("register: name, email, password and phone are required: %w", apperrors.ErrInvalidInput)
	}
	if err := validate.Var(email, "email"); err != nil {
		return models.User{}, fmt.Errorf("register: invalid email: %w", apperrors.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return models.User{}, fmt.Errorf("register: password must be at least %d characters: %w", minPasswordLength, apperrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	now := nowUTC()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Cart:         []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.InsertAccount(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

func (s *AccountService) Profile(ctx context.Context, id primitive.ObjectID) (Profile, error) {
	user, err := s.accounts.FindAccountByID(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	listings, err := s.books.ListBySeller(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("profile listings: %w", err)
	}
	reviews, err := s.reviews.ForTarget(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	rating, err := s.reviews.Summary(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}

	return Profile{
		User:     user.Public(),
		Listings: listings,
		Reviews:  reviews,
		Rating:   rating,
	}, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	public := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return public, nil
}

// Delete removes a non-admin account. Admin accounts are refused both by the
// guard and by the store's conditional delete.
func (s *AccountService) Delete(ctx context.Context, actor guard.Actor, id primitive.ObjectID) error {
	target, err := s.accounts.FindAccountByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := guard.Authorize(actor, guard.ActionDeleteAccount, guard.ForAccount(id, target.IsAdmin)); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.accounts.DeleteNonAdminAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
