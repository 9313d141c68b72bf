package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/guard"
	"rebook/internal/models"
	"rebook/internal/repository"
)

func newTestServices(t *testing.T) (*Services, *repository.MemoryRepo) {
	t.Helper()
	repo := repository.NewMemoryRepo()
	svc := New(repo)
	svc.Accounts.WithHashCost(4)
	return svc, repo
}

func seedAccount(t *testing.T, repo *repository.MemoryRepo, name string, isAdmin bool) models.User {
	t.Helper()
	user := models.User{
		Name:      name,
		Email:     primitive.NewObjectID().Hex() + "@example.com",
		Phone:     "555-0100",
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.InsertAccount(context.Background(), &user))
	return user
}

func actorOf(u models.User) guard.Actor {
	return guard.Actor{ID: u.ID, IsAdmin: u.IsAdmin}
}

func float(v float64) *float64 { return &v }
func str(v string) *string     { return &v }

func listingInput(title string, lat, lng *float64) ListingInput {
	return ListingInput{
		Title:     title,
		Author:    "Yuval Noah Harari",
		Price:     299,
		Condition: "Good",
		Category:  "History",
		City:      "  Pune ",
		Lat:       lat,
		Lng:       lng,
		Image:     &models.Image{PublicID: "rebook/abc", URL: "https://cdn.example/abc.jpg"},
	}
}
