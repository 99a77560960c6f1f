// Package cases implements the case domain: routed, persisted units of review
// work. A case is created from a synthesized diagnosis report, carries its
// ordered image blobs, and moves through open, assigned, and archived states.
package cases

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the case lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAssigned Status = "assigned"
	StatusArchived Status = "archived"
)

// RoutingMode selects how a new case is bound to a reviewer.
type RoutingMode string

const (
	// ModePool leaves the case unassigned for any reviewer to claim.
	ModePool RoutingMode = "POOL"
	// ModeNearest pre-assigns the case to the reviewer geographically
	// closest to the submitter.
	ModeNearest RoutingMode = "NEAREST"
)

// ParseMode parses a routing mode string, defaulting to POOL for empty input.
func ParseMode(s string) (RoutingMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ModePool, nil
	case string(ModePool):
		return ModePool, nil
	case string(ModeNearest):
		return ModeNearest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Case represents a row of the cases table plus its ordered images.
type Case struct {
	ID         uuid.UUID  `json:"id"`
	Topic      string     `json:"topic"`
	Body       string     `json:"body"`
	State      *string    `json:"state"`
	District   *string    `json:"district"`
	Status     Status     `json:"status"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	TakenAt    *time.Time `json:"taken_at"`
	ArchivedAt *time.Time `json:"archived_at"`
	Images     []Image    `json:"images,omitempty"`
}

// Image is one stored photograph of a case, ordered by Position.
type Image struct {
	Position    int    `json:"position"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"-"`
}

// ImageUpload carries raw image bytes into case creation.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// CreateCommand carries everything needed to persist a new case.
// AssignedTo is nil for pool-routed cases.
type CreateCommand struct {
	Topic      string
	Body       string
	State      *string
	District   *string
	CreatedBy  string
	AssignedTo *uuid.UUID
	Images     []ImageUpload
}
