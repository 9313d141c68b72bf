// Package services holds the domain operations behind the HTTP handlers.
// Each service depends only on the repository interfaces it needs.
package services

import (
	"time"

	"rebook/internal/repository"
)

// Services bundles every domain service built over one store.
type Services struct {
	Discovery *DiscoveryService
	Listings  *ListingService
	Cart      *CartService
	Reviews   *ReviewService
	Accounts  *AccountService
}

func New(store repository.Store) *Services {
	reviews := NewReviewService(store, store)
	return &Services{
		Discovery: NewDiscoveryService(store),
		Listings:  NewListingService(store),
		Cart:      NewCartService(store, store),
		Reviews:   reviews,
		Accounts:  NewAccountService(store, store, reviews),
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
