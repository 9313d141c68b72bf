package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummarizeRatings(t *testing.T) {
	summary := SummarizeRatings([]int{5, 3, 4})
	require.NotNil(t, summary.Average)
	require.InDelta(t, 4.0, *summary.Average, 1e-9)
	require.Equal(t, 3, summary.Count)
	require.Equal(t, "4.0", summary.Label)

	empty := SummarizeRatings(nil)
	require.Nil(t, empty.Average)
	require.Zero(t, empty.Count)
	require.Equal(t, NoRatingLabel, empty.Label)

	body, err := json.Marshal(empty)
	require.NoError(t, err)
	require.JSONEq(t, `{"average":null,"count":0,"label":"no rating yet"}`, string(body))
}

func TestParseConditionAndCategory(t *testing.T) {
	c, ok := ParseCondition("LikeNew")
	require.True(t, ok)
	require.Equal(t, ConditionLikeNew, c)

	c, ok = ParseCondition(" like new ")
	require.True(t, ok)
	require.Equal(t, ConditionLikeNew, c)

	_, ok = ParseCondition("Mint")
	require.False(t, ok)

	cat, ok := ParseCategory("non-fiction")
	require.True(t, ok)
	require.Equal(t, CategoryNonFiction, cat)

	_, ok = ParseCategory("Cooking")
	require.False(t, ok)
}

func TestBookUpdateApply(t *testing.T) {
	book := Book{Title: "Old", Price: 100, City: "pune"}
	title := "New"
	price := 250.0
	BookUpdate{Title: &title, Price: &price, Location: NewGeoPoint(73.85, 18.52)}.Apply(&book)

	require.Equal(t, "New", book.Title)
	require.Equal(t, 250.0, book.Price)
	require.Equal(t, "pune", book.City)
	require.Equal(t, 73.85, book.Location.Lng())
	require.Equal(t, 18.52, book.Location.Lat())
}

func TestBookResultJSONFlattensListing(t *testing.T) {
	distance := 1200.5
	result := BookResult{
		Book:     Book{ID: primitive.NewObjectID(), Title: "Dune"},
		Seller:   SellerSummary{Name: "Asha", Email: "asha@example.com"},
		Distance: &distance,
	}

	body, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Equal(t, "Dune", decoded["title"])
	require.Equal(t, 1200.5, decoded["distance"])
	seller := decoded["seller"].(map[string]any)
	require.Equal(t, "Asha", seller["name"])
	_, hasPhone := seller["phone"]
	require.False(t, hasPhone)
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	user := User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "hash", Cart: []primitive.ObjectID{primitive.NewObjectID()}}
	body, err := json.Marshal(user)
	require.NoError(t, err)
	require.NotContains(t, string(body), "hash")
	require.NotContains(t, string(body), "cart")

	summary := user.Summary(true)
	require.NotNil(t, summary.CreatedAt)
	require.Empty(t, user.Summary(false).Phone)
}
