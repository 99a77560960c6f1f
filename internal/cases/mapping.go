package cases

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/pkg/query"
	"github.com/cropsight/cropsight/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("topic", "Topic").
	Project("body", "Body").
	Project("state", "State").
	Project("district", "District").
	Project("status", "Status").
	Project("assigned_to", "AssignedTo").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("taken_at", "TakenAt").
	Project("archived_at", "ArchivedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. Unassigned filters for open pool cases.
type Filters struct {
	Status     *string    `json:"status,omitempty"`
	State      *string    `json:"state,omitempty"`
	District   *string    `json:"district,omitempty"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedBy  *string    `json:"created_by,omitempty"`
	Unassigned bool       `json:"unassigned,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b = b.
		WhereEquals("Status", f.Status).
		WhereEquals("State", f.State).
		WhereEquals("District", f.District).
		WhereEquals("AssignedTo", f.AssignedTo).
		WhereEquals("CreatedBy", f.CreatedBy)

	if f.Unassigned {
		b = b.WhereNullable("AssignedTo", nil)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if s := values.Get("state"); s != "" {
		f.State = &s
	}

	if d := values.Get("district"); d != "" {
		f.District = &d
	}

	if a := values.Get("assigned_to"); a != "" {
		if id, err := uuid.Parse(a); err == nil {
			f.AssignedTo = &id
		}
	}

	if c := values.Get("created_by"); c != "" {
		f.CreatedBy = &c
	}

	if values.Get("unassigned") == "true" {
		f.Unassigned = true
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case

	err := s.Scan(
		&c.ID,
		&c.Topic,
		&c.Body,
		&c.State,
		&c.District,
		&c.Status,
		&c.AssignedTo,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.TakenAt,
		&c.ArchivedAt,
	)

	return c, err
}

func scanImage(s repository.Scanner) (Image, error) {
	var img Image
	err := s.Scan(
		&img.Position,
		&img.Filename,
		&img.ContentType,
		&img.StorageKey,
	)
	return img, err
}
