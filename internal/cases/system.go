package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/cropsight/cropsight/internal/diagnosis"
	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/pagination"
	"github.com/cropsight/cropsight/pkg/storage"
)

// System defines the public contract for case domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, cmd CreateCommand) (*Case, error)

	Route(
		ctx context.Context,
		report diagnosis.Report,
		images []ImageUpload,
		mode RoutingMode,
		submitter middleware.Principal,
	) (*Case, error)

	Claim(ctx context.Context, id uuid.UUID, principal middleware.Principal) (*Case, error)
	Archive(ctx context.Context, id uuid.UUID) (*Case, error)
	DownloadImage(ctx context.Context, id uuid.UUID, position int) (*storage.DownloadResult, error)
}
