// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/cropsight/cropsight/internal/config"
	"github.com/cropsight/cropsight/internal/infrastructure"
	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Principals())
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
