package api

import (
	"github.com/cropsight/cropsight/internal/config"
	"github.com/cropsight/cropsight/internal/infrastructure"
	"github.com/cropsight/cropsight/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Classifier config.ClassifierConfig
	MaxUpload  int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Agent:     cfg.Agent,
		},
		Pagination: cfg.API.Pagination,
		Classifier: cfg.Classifier,
		MaxUpload:  cfg.API.MaxUploadSizeBytes(),
	}
}
