package reviewers

import (
	"errors"
	"net/http"
)

// Domain errors for reviewer operations.
var (
	ErrNotFound           = errors.New("reviewer not found")
	ErrDuplicate          = errors.New("reviewer already exists")
	ErrNotReviewer        = errors.New("user is not a reviewer")
	ErrForbidden          = errors.New("cannot update another reviewer's location")
	ErrNoLocatedReviewers = errors.New("no reviewer has known coordinates")
)

// MapHTTPStatus maps reviewer domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotReviewer) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNoLocatedReviewers) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
