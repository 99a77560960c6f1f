package cases

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/internal/diagnosis"
	"github.com/cropsight/cropsight/internal/metrics"
	"github.com/cropsight/cropsight/internal/reviewers"
	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/pagination"
	"github.com/cropsight/cropsight/pkg/query"
	"github.com/cropsight/cropsight/pkg/repository"
	"github.com/cropsight/cropsight/pkg/storage"
)

// ReviewerLocator is the slice of the reviewer domain that routing needs:
// resolving the submitter and finding the nearest located reviewer.
type ReviewerLocator interface {
	FindByUsername(ctx context.Context, username string) (*reviewers.Reviewer, error)
	Nearest(ctx context.Context, latitude, longitude float64) (*reviewers.Reviewer, error)
}

type repo struct {
	db         *sql.DB
	store      storage.System
	locator    ReviewerLocator
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	locator ReviewerLocator,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		store:      store,
		locator:    locator,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Topic", "Body")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	images, err := r.loadImages(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Images = images

	return &c, nil
}

// Route creates a case from a synthesized report according to the routing
// mode. POOL leaves the case open and unassigned. NEAREST resolves the
// submitter's coordinates and pre-assigns the closest located reviewer;
// a missing submitter position or an empty located-reviewer set yields
// ErrRoutingUnavailable rather than silently degrading to POOL.
func (r *repo) Route(
	ctx context.Context,
	report diagnosis.Report,
	images []ImageUpload,
	mode RoutingMode,
	submitter middleware.Principal,
) (*Case, error) {
	assignee, err := r.resolveAssignee(ctx, mode, submitter)
	if err != nil {
		return nil, err
	}

	created, err := r.Create(ctx, CreateCommand{
		Topic:      report.Topic,
		Body:       report.Body,
		State:      report.State,
		District:   report.District,
		CreatedBy:  submitter.Username,
		AssignedTo: assignee,
		Images:     images,
	})
	if err != nil {
		return nil, err
	}

	metrics.CasesRouted.WithLabelValues(string(mode)).Inc()
	return created, nil
}

func (r *repo) resolveAssignee(
	ctx context.Context,
	mode RoutingMode,
	submitter middleware.Principal,
) (*uuid.UUID, error) {
	if mode != ModeNearest {
		return nil, nil
	}

	sender, err := r.locator.FindByUsername(ctx, submitter.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve submitter: %w", ErrRoutingUnavailable, err)
	}
	if !sender.Located() {
		return nil, fmt.Errorf("%w: submitter location unknown", ErrRoutingUnavailable)
	}

	nearest, err := r.locator.Nearest(ctx, *sender.Latitude, *sender.Longitude)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRoutingUnavailable, err)
	}

	return &nearest.ID, nil
}

// Create persists a case and its images. Image bytes are uploaded to blob
// storage first; if the database insert fails, the uploaded blobs are
// deleted so storage never accumulates orphans.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Case, error) {
	id := uuid.New()

	uploaded, err := r.uploadImages(ctx, id, cmd.Images)
	if err != nil {
		return nil, err
	}

	status := StatusOpen
	if cmd.AssignedTo != nil {
		status = StatusAssigned
	}

	insertCase := `
		INSERT INTO cases(id, topic, body, state, district, status, assigned_to, created_by, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CASE WHEN $7::uuid IS NULL THEN NULL ELSE NOW() END)
		RETURNING id, topic, body, state, district, status, assigned_to,
				  created_by, created_at, taken_at, archived_at`

	insertImage := `
		INSERT INTO case_images(case_id, position, filename, content_type, storage_key)
		VALUES ($1, $2, $3, $4, $5)`

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		created, err := repository.QueryOne(ctx, tx, insertCase, []any{
			id,
			cmd.Topic,
			cmd.Body,
			cmd.State,
			cmd.District,
			string(status),
			cmd.AssignedTo,
			cmd.CreatedBy,
		}, scanCase)
		if err != nil {
			return Case{}, fmt.Errorf("insert case: %w", err)
		}

		for _, img := range uploaded {
			if _, err := tx.ExecContext(ctx, insertImage,
				id, img.Position, img.Filename, img.ContentType, img.StorageKey,
			); err != nil {
				return Case{}, fmt.Errorf("insert case image %d: %w", img.Position, err)
			}
		}

		created.Images = uploaded
		return created, nil
	})

	if err != nil {
		r.deleteBlobs(ctx, uploaded)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("case created",
		"id", c.ID,
		"topic", c.Topic,
		"status", c.Status,
		"images", len(c.Images),
	)
	return &c, nil
}

// Claim assigns an open case to the calling reviewer and stamps taken_at.
func (r *repo) Claim(ctx context.Context, id uuid.UUID, principal middleware.Principal) (*Case, error) {
	claimant, err := r.locator.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, err
	}
	if !claimant.HasRole(reviewers.RoleReviewer) {
		return nil, ErrClaimForbidden
	}

	claimQ := `
		UPDATE cases
		SET status = $1, assigned_to = $2, taken_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING id, topic, body, state, district, status, assigned_to,
				  created_by, created_at, taken_at, archived_at`

	c, err := repository.QueryOne(ctx, r.db, claimQ,
		[]any{string(StatusAssigned), claimant.ID, id, string(StatusOpen)},
		scanCase,
	)
	if err != nil {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrInvalidStatus
	}

	r.logger.Info("case claimed", "id", c.ID, "reviewer", claimant.Username)
	return &c, nil
}

// Archive closes out an assigned case.
func (r *repo) Archive(ctx context.Context, id uuid.UUID) (*Case, error) {
	archiveQ := `
		UPDATE cases
		SET status = $1, archived_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING id, topic, body, state, district, status, assigned_to,
				  created_by, created_at, taken_at, archived_at`

	c, err := repository.QueryOne(ctx, r.db, archiveQ,
		[]any{string(StatusArchived), id, string(StatusAssigned)},
		scanCase,
	)
	if err != nil {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, ErrInvalidStatus
	}

	r.logger.Info("case archived", "id", c.ID)
	return &c, nil
}

// DownloadImage streams one stored case image from blob storage.
func (r *repo) DownloadImage(ctx context.Context, id uuid.UUID, position int) (*storage.DownloadResult, error) {
	imageQ := `
		SELECT i.position, i.filename, i.content_type, i.storage_key
		FROM public.case_images i
		WHERE i.case_id = $1 AND i.position = $2`

	img, err := repository.QueryOne(ctx, r.db, imageQ, []any{id, position}, scanImage)
	if err != nil {
		return nil, repository.MapError(err, ErrImageNotFound, ErrDuplicate)
	}

	return r.store.Download(ctx, img.StorageKey)
}

func (r *repo) loadImages(ctx context.Context, id uuid.UUID) ([]Image, error) {
	imagesQ := `
		SELECT i.position, i.filename, i.content_type, i.storage_key
		FROM public.case_images i
		WHERE i.case_id = $1
		ORDER BY i.position`

	images, err := repository.QueryMany(ctx, r.db, imagesQ, []any{id}, scanImage)
	if err != nil {
		return nil, fmt.Errorf("query case images: %w", err)
	}

	if images == nil {
		images = []Image{}
	}
	return images, nil
}

func (r *repo) uploadImages(ctx context.Context, id uuid.UUID, uploads []ImageUpload) ([]Image, error) {
	images := make([]Image, 0, len(uploads))

	for n, upload := range uploads {
		filename := upload.Filename
		if filename == "" {
			filename = fmt.Sprintf("image-%d.jpg", n+1)
		}

		img := Image{
			Position:    n + 1,
			Filename:    filename,
			ContentType: upload.ContentType,
			StorageKey:  fmt.Sprintf("cases/%s/%d_%s", id, n+1, filename),
		}

		if err := r.store.Upload(ctx, img.StorageKey, bytes.NewReader(upload.Data), upload.ContentType); err != nil {
			r.deleteBlobs(ctx, images)
			return nil, fmt.Errorf("upload case image %d: %w", img.Position, err)
		}

		images = append(images, img)
	}

	return images, nil
}

func (r *repo) deleteBlobs(ctx context.Context, images []Image) {
	for _, img := range images {
		if err := r.store.Delete(ctx, img.StorageKey); err != nil {
			r.logger.Warn("orphaned blob cleanup failed",
				"key", img.StorageKey,
				"error", err,
			)
		}
	}
}
