// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/infrastructure"
	"github.com/JaimeStill/roster/pkg/formatting"
	"github.com/JaimeStill/roster/pkg/middleware"
	"github.com/JaimeStill/roster/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Trace(cfg.Telemetry.ServiceName))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	runtime.Logger.Info(
		"api module initialized",
		"base_path", cfg.API.BasePath,
		"max_body_size", formatting.FormatBytes(runtime.MaxBodySize, 1),
		"queryable_fields", runtime.QueryableFields,
	)

	return m, nil
}
