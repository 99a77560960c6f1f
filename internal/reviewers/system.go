package reviewers

import (
	"context"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/pkg/middleware"
)

// System defines the public contract for reviewer domain operations.
type System interface {
	Handler() *Handler

	ListLocated(ctx context.Context) ([]Reviewer, error)
	Find(ctx context.Context, id uuid.UUID) (*Reviewer, error)
	FindByUsername(ctx context.Context, username string) (*Reviewer, error)
	Nearest(ctx context.Context, latitude, longitude float64) (*Reviewer, error)

	UpdateLocation(
		ctx context.Context,
		id uuid.UUID,
		cmd UpdateLocationCommand,
		principal middleware.Principal,
	) (*Reviewer, error)

	UpdateOwnLocation(
		ctx context.Context,
		principal middleware.Principal,
		cmd UpdateLocationCommand,
	) (*Reviewer, error)
}
