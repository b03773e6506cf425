package api

import (
	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/infrastructure"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxBodySize     int64
	QueryableFields []string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Telemetry: infra.Telemetry,
		},
		MaxBodySize:     cfg.API.MaxBodySizeBytes(),
		QueryableFields: cfg.API.QueryableFields,
	}
}
