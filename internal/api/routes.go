package api

import (
	"net/http"

	"github.com/cropsight/cropsight/internal/workflow"
	"github.com/cropsight/cropsight/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	diagnosis := workflow.NewHandler(domain.Workflow, runtime.Logger, runtime.MaxUpload)

	routes.Register(
		mux,
		diagnosis.Routes(),
		domain.Reviewers.Handler().Routes(),
		domain.Cases.Handler().Routes(),
	)
}
