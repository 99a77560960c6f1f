package reviewers

import (
	"encoding/json"
	"fmt"

	"github.com/cropsight/cropsight/pkg/query"
	"github.com/cropsight/cropsight/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "users", "u").
	Project("id", "ID").
	Project("username", "Username").
	Project("email", "Email").
	Project("roles", "Roles").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude")

var defaultSort = query.SortField{
	Field:      "Username",
	Descending: false,
}

func scanReviewer(s repository.Scanner) (Reviewer, error) {
	var r Reviewer
	var rolesRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Username,
		&r.Email,
		&rolesRaw,
		&r.Latitude,
		&r.Longitude,
	)

	if err != nil {
		return r, err
	}

	if len(rolesRaw) > 0 {
		if err := json.Unmarshal(rolesRaw, &r.Roles); err != nil {
			return r, fmt.Errorf("unmarshal roles: %w", err)
		}
	}

	if r.Roles == nil {
		r.Roles = []string{}
	}

	return r, nil
}
