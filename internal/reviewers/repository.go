package reviewers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/query"
	"github.com/cropsight/cropsight/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a reviewer repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "reviewers"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// ListLocated returns reviewers with known coordinates, ordered by username.
// The ordering makes nearest-match tie-breaking deterministic.
func (r *repo) ListLocated(ctx context.Context) ([]Reviewer, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereNotNull("Latitude", "Longitude").
		Build()

	users, err := repository.QueryMany(ctx, r.db, q, args, scanReviewer)
	if err != nil {
		return nil, fmt.Errorf("query located reviewers: %w", err)
	}

	located := make([]Reviewer, 0, len(users))
	for _, u := range users {
		if u.HasRole(RoleReviewer) {
			located = append(located, u)
		}
	}

	return located, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Reviewer, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanReviewer)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*Reviewer, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Username", username)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanReviewer)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

// Nearest returns the located reviewer closest to the given coordinates by
// great-circle distance. Returns ErrNoLocatedReviewers when no reviewer has
// coordinates.
func (r *repo) Nearest(ctx context.Context, latitude, longitude float64) (*Reviewer, error) {
	located, err := r.ListLocated(ctx)
	if err != nil {
		return nil, err
	}

	nearest := nearestLocated(located, latitude, longitude)
	if nearest == nil {
		return nil, ErrNoLocatedReviewers
	}

	return nearest, nil
}

// UpdateLocation sets a reviewer's coordinates. Admins may update any
// reviewer; a reviewer may only update their own location. The target must
// carry the reviewer role.
func (r *repo) UpdateLocation(
	ctx context.Context,
	id uuid.UUID,
	cmd UpdateLocationCommand,
	principal middleware.Principal,
) (*Reviewer, error) {
	target, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !target.HasRole(RoleReviewer) {
		return nil, ErrNotReviewer
	}

	if !principal.IsAdmin() && principal.Username != target.Username {
		return nil, ErrForbidden
	}

	updated, err := r.setCoordinates(ctx, target.ID, cmd)
	if err != nil {
		return nil, err
	}

	r.logger.Info("reviewer location updated",
		"id", updated.ID,
		"updated_by", principal.Username,
	)
	return updated, nil
}

// UpdateOwnLocation sets the calling user's own coordinates. Any
// authenticated user may share a location; it only affects routing for users
// holding the reviewer role.
func (r *repo) UpdateOwnLocation(
	ctx context.Context,
	principal middleware.Principal,
	cmd UpdateLocationCommand,
) (*Reviewer, error) {
	self, err := r.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}

	updated, err := r.setCoordinates(ctx, self.ID, cmd)
	if err != nil {
		return nil, err
	}

	r.logger.Info("own location updated", "id", updated.ID, "username", updated.Username)
	return updated, nil
}

func (r *repo) setCoordinates(
	ctx context.Context,
	id uuid.UUID,
	cmd UpdateLocationCommand,
) (*Reviewer, error) {
	updateQ := `
		UPDATE users
		SET latitude = $1, longitude = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, username, email, roles, latitude, longitude`

	u, err := repository.QueryOne(
		ctx, r.db, updateQ,
		[]any{cmd.Latitude, cmd.Longitude, id},
		scanReviewer,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &u, nil
}
