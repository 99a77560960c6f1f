package reviewers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/pkg/handlers"
	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/routes"
)

var errUnauthenticated = errors.New("authentication required")

// Handler provides HTTP endpoints for reviewer operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reviewers"),
	}
}

// Routes returns the route group definition for reviewer endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reviewers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/locations", Handler: h.ListLocated},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}/location", Handler: h.UpdateLocation},
			{Method: "PUT", Pattern: "/me/location", Handler: h.UpdateOwnLocation},
		},
	}
}

// ListLocated returns all reviewers with known coordinates.
func (h *Handler) ListLocated(w http.ResponseWriter, r *http.Request) {
	located, err := h.sys.ListLocated(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, located)
}

// Find returns a single reviewer by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	reviewer, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reviewer)
}

// UpdateLocation sets a reviewer's coordinates, guarded by the self-or-admin rule.
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal.Anonymous() {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd UpdateLocationCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reviewer, err := h.sys.UpdateLocation(r.Context(), id, cmd, principal)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reviewer)
}

// UpdateOwnLocation sets the calling user's coordinates.
func (h *Handler) UpdateOwnLocation(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal.Anonymous() {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var cmd UpdateLocationCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reviewer, err := h.sys.UpdateOwnLocation(r.Context(), principal, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reviewer)
}
