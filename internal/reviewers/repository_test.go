package reviewers_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/cropsight/cropsight/internal/reviewers"
	"github.com/cropsight/cropsight/pkg/middleware"
)

var reviewerColumns = []string{"id", "username", "email", "roles", "latitude", "longitude"}

func newRepo(t *testing.T) (reviewers.System, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return reviewers.New(db, logger), mock
}

func reviewerRow(id uuid.UUID, username, roles string, lat, lon any) []driver.Value {
	return []driver.Value{id, username, username + "@example.com", []byte(roles), lat, lon}
}

func TestListLocatedFiltersRoles(t *testing.T) {
	repo, mock := newRepo(t)

	rows := sqlmock.NewRows(reviewerColumns).
		AddRow(reviewerRow(uuid.New(), "analyst", `["analyst"]`, 23.81, 90.41)...).
		AddRow(reviewerRow(uuid.New(), "dhaka", `["reviewer"]`, 23.81, 90.41)...).
		AddRow(reviewerRow(uuid.New(), "sylhet", `["reviewer","admin"]`, 24.90, 91.87)...)

	mock.ExpectQuery("SELECT (.+) FROM public.users").WillReturnRows(rows)

	located, err := repo.ListLocated(context.Background())
	if err != nil {
		t.Fatalf("ListLocated: %v", err)
	}

	if len(located) != 2 {
		t.Fatalf("located = %d reviewers, want 2", len(located))
	}
	if located[0].Username != "dhaka" || located[1].Username != "sylhet" {
		t.Errorf("located = %q, %q", located[0].Username, located[1].Username)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNearestNoLocatedReviewers(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM public.users").
		WillReturnRows(sqlmock.NewRows(reviewerColumns))

	_, err := repo.Nearest(context.Background(), 23.70, 90.39)
	if !errors.Is(err, reviewers.ErrNoLocatedReviewers) {
		t.Fatalf("err = %v, want ErrNoLocatedReviewers", err)
	}
}

func TestUpdateLocationAuthorization(t *testing.T) {
	targetID := uuid.New()
	cmd := reviewers.UpdateLocationCommand{Latitude: 23.70, Longitude: 90.39}

	tests := []struct {
		name        string
		target      []driver.Value
		principal   middleware.Principal
		wantErr     error
		wantUpdated bool
	}{
		{
			name:        "admin updates another reviewer",
			target:      reviewerRow(targetID, "dhaka", `["reviewer"]`, nil, nil),
			principal:   middleware.Principal{Username: "root", Roles: []string{"admin"}},
			wantUpdated: true,
		},
		{
			name:        "reviewer updates own location",
			target:      reviewerRow(targetID, "dhaka", `["reviewer"]`, nil, nil),
			principal:   middleware.Principal{Username: "dhaka", Roles: []string{"reviewer"}},
			wantUpdated: true,
		},
		{
			name:      "reviewer cannot update another reviewer",
			target:    reviewerRow(targetID, "dhaka", `["reviewer"]`, nil, nil),
			principal: middleware.Principal{Username: "sylhet", Roles: []string{"reviewer"}},
			wantErr:   reviewers.ErrForbidden,
		},
		{
			name:      "target without reviewer role",
			target:    reviewerRow(targetID, "farmer", `["farmer"]`, nil, nil),
			principal: middleware.Principal{Username: "root", Roles: []string{"admin"}},
			wantErr:   reviewers.ErrNotReviewer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectQuery("SELECT (.+) FROM public.users").
				WillReturnRows(sqlmock.NewRows(reviewerColumns).AddRow(tt.target...))

			if tt.wantUpdated {
				updated := sqlmock.NewRows(reviewerColumns).
					AddRow(targetID, tt.target[1], tt.target[2], tt.target[3], cmd.Latitude, cmd.Longitude)
				mock.ExpectQuery("UPDATE users").WillReturnRows(updated)
			}

			got, err := repo.UpdateLocation(context.Background(), targetID, cmd, tt.principal)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("UpdateLocation: %v", err)
			}
			if got.Latitude == nil || *got.Latitude != cmd.Latitude {
				t.Errorf("latitude = %v, want %v", got.Latitude, cmd.Latitude)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestUpdateLocationNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM public.users").
		WillReturnRows(sqlmock.NewRows(reviewerColumns))

	_, err := repo.UpdateLocation(
		context.Background(),
		uuid.New(),
		reviewers.UpdateLocationCommand{Latitude: 1, Longitude: 1},
		middleware.Principal{Username: "root", Roles: []string{"admin"}},
	)
	if !errors.Is(err, reviewers.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateOwnLocation(t *testing.T) {
	repo, mock := newRepo(t)
	selfID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM public.users").
		WillReturnRows(sqlmock.NewRows(reviewerColumns).
			AddRow(reviewerRow(selfID, "dhaka", `["reviewer"]`, nil, nil)...))

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(sqlmock.NewRows(reviewerColumns).
			AddRow(reviewerRow(selfID, "dhaka", `["reviewer"]`, 23.70, 90.39)...))

	got, err := repo.UpdateOwnLocation(
		context.Background(),
		middleware.Principal{Username: "dhaka", Roles: []string{"reviewer"}},
		reviewers.UpdateLocationCommand{Latitude: 23.70, Longitude: 90.39},
	)
	if err != nil {
		t.Fatalf("UpdateOwnLocation: %v", err)
	}
	if !got.Located() {
		t.Error("updated reviewer should be located")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
