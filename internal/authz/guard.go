// Package authz holds the single ownership rule applied before every
// mutating resource operation.
package authz

import (
	"github.com/pkg/errors"

	"github.com/emprendia/emprendia/internal/domain"
)

// ErrForbidden is returned when an authenticated actor lacks rights over a
// resource. It must never be downgraded to a not-found error.
var ErrForbidden = errors.New("forbidden")

// CanMutate reports whether actor may mutate a resource owned by ownerID:
// the owner itself, or any actor with the admin role. No other path grants
// access.
func CanMutate(actor domain.Actor, ownerID int64) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Kind == domain.ActorKindEntrepreneur && actor.ID == ownerID
}

// CheckMutate is CanMutate surfaced as an error.
func CheckMutate(actor domain.Actor, ownerID int64) error {
	if !CanMutate(actor, ownerID) {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin allows only elevated actors (used by toggle-featured).
func RequireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
