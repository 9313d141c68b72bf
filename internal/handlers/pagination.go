package handlers

import (
	"fmt"
	"math"
	"strconv"

	"rebook/internal/apperrors"
)

// parsePaginationParams reads page/limit. Callers only paginate when both are
// present, so the absent case returns the defaults.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("page %q: %w", pageStr, apperrors.ErrInvalidQuery)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("limit %q: %w", limitStr, apperrors.ErrInvalidQuery)
		}
		limit = l
	}

	if page-1 > math.MaxInt64/limit {
		return 0, 0, fmt.Errorf("page %d with limit %d: %w", page, limit, apperrors.ErrInvalidQuery)
	}

	return page, limit, nil
}

// paginate slices an already ranked result set. Pages past the end are empty.
func paginate[T any](items []T, page, limit int64) []T {
	n := int64(len(items))
	if page < 1 || limit < 1 {
		return []T{}
	}
	pages := n / limit
	if n%limit != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	start := (page - 1) * limit
	end := n
	if limit < n-start {
		end = start + limit
	}
	return items[start:end]
}
