package cases

import (
	"errors"
	"net/http"
)

// Domain errors for case operations.
var (
	ErrNotFound       = errors.New("case not found")
	ErrDuplicate      = errors.New("case already exists")
	ErrInvalidMode    = errors.New("invalid routing mode")
	ErrInvalidStatus  = errors.New("case is not in a valid status for this operation")
	ErrImageNotFound  = errors.New("case image not found")
	ErrClaimForbidden = errors.New("only reviewers can claim cases")

	// ErrRoutingUnavailable signals that nearest routing was requested but
	// no located reviewer or submitter position exists. It is a data
	// availability condition, deliberately distinct from transport faults.
	ErrRoutingUnavailable = errors.New("nearest routing unavailable")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrImageNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidMode) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrRoutingUnavailable) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrClaimForbidden) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
