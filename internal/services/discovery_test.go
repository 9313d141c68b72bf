package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
	"rebook/internal/geo"
	"rebook/internal/models"
)

func TestDiscoverWithoutPointOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	seller := seedAccount(t, repo, "Asha", false)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		book := models.Book{
			Title:     title,
			Author:    "A",
			Price:     10,
			Category:  models.CategoryFiction,
			SellerID:  seller.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.InsertBook(ctx, &book))
	}

	results, err := svc.Discovery.Discover(ctx, DiscoveryQuery{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "Newest", results[0].Title)
	require.Equal(t, "Oldest", results[2].Title)
	require.Nil(t, results[0].Distance)
	require.Equal(t, "Asha", results[0].Seller.Name)
	require.Empty(t, results[0].Seller.Phone, "recency discovery carries name and email only")
}

func TestDiscoverNearIsBoundedAndSorted(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	seller := seedAccount(t, repo, "Asha", false)

	// Pune is the query point; Mumbai is ~120km away, Nashik ~165km, Delhi ~1150km.
	places := []struct {
		title    string
		lat, lng float64
	}{
		{"Nashik", 19.9975, 73.7898},
		{"Mumbai", 19.076, 72.8777},
		{"Delhi", 28.6139, 77.209},
		{"Pune", 18.5204, 73.8567},
	}
	for _, p := range places {
		_, err := svc.Listings.Create(ctx, actorOf(seller), listingInput(p.title, float(p.lat), float(p.lng)))
		require.NoError(t, err)
	}
	_, err := svc.Listings.Create(ctx, actorOf(seller), listingInput("Nowhere", nil, nil))
	require.NoError(t, err)

	query := geo.Point{Lat: 18.5204, Lng: 73.8567}
	results, err := svc.Discovery.Discover(ctx, DiscoveryQuery{Point: &query})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	require.Len(t, results, 3)
	require.Equal(t, "Pune", results[0].Title)
	require.Equal(t, "Mumbai", results[1].Title)
	require.Equal(t, "Nashik", results[2].Title)
	prev := -1.0
	for _, r := range results {
		require.NotNil(t, r.Distance)
		require.LessOrEqual(t, *r.Distance, geo.MaxDiscoveryRadiusMeters)
		require.GreaterOrEqual(t, *r.Distance, prev)
		prev = *r.Distance
		require.NotEqual(t, "Delhi", r.Title)
		require.NotEqual(t, "Nowhere", r.Title, "unlocated listings never appear in distance ranking")
		require.Equal(t, "555-0100", r.Seller.Phone)
	}
}

func TestDiscoverRejectsOutOfRangePoint(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Discovery.Discover(context.Background(), DiscoveryQuery{Point: &geo.Point{Lat: 91, Lng: 0}})
	require.ErrorIs(t, err, apperrors.ErrInvalidQuery)
}

func TestDiscoverEmptyIsNotAnError(t *testing.T) {
	svc, _ := newTestServices(t)
	results, err := svc.Discovery.Discover(context.Background(), DiscoveryQuery{Point: &geo.Point{Lat: 0, Lng: 0}})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSimilarExcludesListingAndCaps(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	seller := seedAccount(t, repo, "Asha", false)

	var ids []primitive.ObjectID
	for i := 0; i < 6; i++ {
		book, err := svc.Listings.Create(ctx, actorOf(seller), listingInput("History book", nil, nil))
		require.NoError(t, err)
		ids = append(ids, book.ID)
	}
	fiction := listingInput("Novel", nil, nil)
	fiction.Category = "Fiction"
	_, err := svc.Listings.Create(ctx, actorOf(seller), fiction)
	require.NoError(t, err)

	similar, err := svc.Discovery.Similar(ctx, ids[0], "History")
	require.NoError(t, err)
	require.Len(t, similar, SimilarLimit)
	for _, b := range similar {
		require.NotEqual(t, ids[0], b.ID)
		require.Equal(t, models.CategoryHistory, b.Category)
	}

	none, err := svc.Discovery.Similar(ctx, ids[0], "Cooking")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMineAndGet(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	me := seedAccount(t, repo, "Me", false)
	other := seedAccount(t, repo, "Other", false)

	mine, err := svc.Listings.Create(ctx, actorOf(me), listingInput("Mine", nil, nil))
	require.NoError(t, err)
	_, err = svc.Listings.Create(ctx, actorOf(other), listingInput("Theirs", nil, nil))
	require.NoError(t, err)

	books, err := svc.Discovery.Mine(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, mine.ID, books[0].ID)

	got, err := svc.Discovery.Get(ctx, mine.ID)
	require.NoError(t, err)
	require.Equal(t, "Me", got.Seller.Name)

	_, err = svc.Discovery.Get(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDiscoverOmitsListingsOfDeletedSellers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestServices(t)
	admin := seedAccount(t, repo, "Admin", true)
	seller := seedAccount(t, repo, "Gone", false)

	_, err := svc.Listings.Create(ctx, actorOf(seller), listingInput("Orphan", float(18.52), float(73.85)))
	require.NoError(t, err)
	require.NoError(t, svc.Accounts.Delete(ctx, actorOf(admin), seller.ID))

	recent, err := svc.Discovery.Discover(ctx, DiscoveryQuery{})
	require.NoError(t, err)
	require.Empty(t, recent)

	near, err := svc.Discovery.Discover(ctx, DiscoveryQuery{Point: &geo.Point{Lat: 18.52, Lng: 73.85}})
	require.NoError(t, err)
	require.Empty(t, near)
}
