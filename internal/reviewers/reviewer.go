// Package reviewers implements the reviewer domain: the users who claim and
// review diagnosis cases, their roles, and their optional map coordinates.
// Coordinates drive nearest-reviewer case routing.
package reviewers

import (
	"github.com/google/uuid"
)

// RoleReviewer marks a user as eligible to receive routed cases.
const RoleReviewer = "reviewer"

// Reviewer represents a row of the users table. Latitude and Longitude are
// nil until the user shares a location; only located reviewers participate
// in nearest-match routing.
type Reviewer struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

// Located reports whether both coordinates are present.
func (r *Reviewer) Located() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasRole reports whether the reviewer carries the given role.
func (r *Reviewer) HasRole(role string) bool {
	for _, have := range r.Roles {
		if have == role {
			return true
		}
	}
	return false
}

// UpdateLocationCommand carries new coordinates for a user.
type UpdateLocationCommand struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
