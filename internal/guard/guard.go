// Package guard is the single authorization decision table for every
// mutation path. It is pure: callers resolve the actor and the resource first.
package guard

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rebook/internal/apperrors"
)

// Actor is the authenticated caller as resolved by the identity middleware.
type Actor struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

type Action string

const (
	ActionUpdateListing Action = "update-listing"
	ActionDeleteListing Action = "delete-listing"
	ActionDeleteAccount Action = "delete-account"
	ActionSubmitReview  Action = "submit-review"
)

// Resource describes the target of an action. Listing actions use OwnerID,
// account deletion uses TargetIsAdmin, review submission uses TargetID.
type Resource struct {
	OwnerID       primitive.ObjectID
	TargetID      primitive.ObjectID
	TargetIsAdmin bool
}

type policy func(actor Actor, res Resource) error

var policies = map[Action]policy{
	ActionUpdateListing: ownerOrAdmin,
	ActionDeleteListing: ownerOrAdmin,
	ActionDeleteAccount: adminOnNonAdmin,
	ActionSubmitReview:  notSelf,
}

// Authorize returns nil when actor may perform action on res, otherwise the
// typed denial reason. Unknown actions are denied.
func Authorize(actor Actor, action Action, res Resource) error {
	p, ok := policies[action]
	if !ok {
		return fmt.Errorf("guard: unknown action %q: %w", action, apperrors.ErrNotAuthorized)
	}
	if err := p(actor, res); err != nil {
		return fmt.Errorf("guard: %s: %w", action, err)
	}
	return nil
}

// ForListing builds the resource for a listing owned by ownerID.
func ForListing(ownerID primitive.ObjectID) Resource {
	return Resource{OwnerID: ownerID}
}

// ForAccount builds the resource for an account deletion target.
func ForAccount(targetID primitive.ObjectID, targetIsAdmin bool) Resource {
	return Resource{TargetID: targetID, TargetIsAdmin: targetIsAdmin}
}

// ForReviewTarget builds the resource for a review of targetID.
func ForReviewTarget(targetID primitive.ObjectID) Resource {
	return Resource{TargetID: targetID}
}

func ownerOrAdmin(actor Actor, res Resource) error {
	if actor.IsAdmin || (!actor.ID.IsZero() && actor.ID == res.OwnerID) {
		return nil
	}
	return apperrors.ErrNotAuthorized
}

func adminOnNonAdmin(actor Actor, res Resource) error {
	if res.TargetIsAdmin {
		return apperrors.ErrCannotDeleteAdmin
	}
	if !actor.IsAdmin {
		return apperrors.ErrNotAuthorized
	}
	return nil
}

func notSelf(actor Actor, res Resource) error {
	if actor.ID == res.TargetID {
		return apperrors.ErrSelfReviewForbidden
	}
	return nil
}
