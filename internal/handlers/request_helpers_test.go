package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"rebook/internal/apperrors"
)

func TestStatusForMapsKinds(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrInvalidQuery, http.StatusBadRequest},
		{apperrors.ErrInvalidRating, http.StatusBadRequest},
		{apperrors.ErrCannotDeleteAdmin, http.StatusBadRequest},
		{apperrors.ErrDuplicateCartEntry, http.StatusBadRequest},
		{apperrors.ErrAlreadyReviewed, http.StatusBadRequest},
		{apperrors.ErrSelfReviewForbidden, http.StatusBadRequest},
		{apperrors.ErrEmailTaken, http.StatusBadRequest},
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrNotAuthorized, http.StatusUnauthorized},
		{apperrors.ErrUnauthenticated, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("op: %w", tt.err)
		require.Equal(t, tt.want, statusFor(wrapped), tt.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	require.Equal(t, "book already in cart",
		publicMessage(fmt.Errorf("add to cart: add cart entry x for y: %w", apperrors.ErrDuplicateCartEntry)))
	require.Equal(t, "price must be positive",
		publicMessage(fmt.Errorf("create listing: price must be positive: %w", apperrors.ErrInvalidInput)))
	require.Equal(t, "invalid input", publicMessage(apperrors.ErrInvalidInput))
	require.Equal(t, "internal server error", publicMessage(errors.New("boom")))
	require.Equal(t, "not authorized",
		publicMessage(fmt.Errorf("update listing: guard: update-listing: %w", apperrors.ErrNotAuthorized)))
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("2", "5")
	require.NoError(t, err)
	require.Equal(t, int64(2), page)
	require.Equal(t, int64(5), limit)

	_, _, err = parsePaginationParams("0", "5")
	require.ErrorIs(t, err, apperrors.ErrInvalidQuery)
	_, _, err = parsePaginationParams("1", "abc")
	require.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	// (page-1)*limit must fit in an int64.
	_, _, err = parsePaginationParams("4611686018427387905", "4")
	require.ErrorIs(t, err, apperrors.ErrInvalidQuery)
	_, _, err = parsePaginationParams("9223372036854775807", "9223372036854775807")
	require.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	page, limit, err = parsePaginationParams("1", "9223372036854775807")
	require.NoError(t, err)
	require.Equal(t, int64(1), page)
	require.Equal(t, int64(math.MaxInt64), limit)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	require.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	require.Equal(t, []int{5}, paginate(items, 3, 2))
	require.Empty(t, paginate(items, 4, 2))

	require.Equal(t, items, paginate(items, 1, math.MaxInt64))
	require.Empty(t, paginate(items, 2, math.MaxInt64))
	require.Empty(t, paginate(items, math.MaxInt64, math.MaxInt64))
	require.Empty(t, paginate(items, 4611686018427387905, 4))
	require.Empty(t, paginate([]int{}, 1, 20))
}
