package api

import (
	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/records"
	"github.com/JaimeStill/roster/pkg/openapi"
)

// NewSpec builds the OpenAPI document describing every route the API module mounts.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.OpenAPI.Description)
	for _, url := range cfg.OpenAPI.Servers {
		spec.AddServer(url)
	}
	spec.AddTag("records", "Record CRUD, lookup, and aggregation")
	spec.Components.AddSchemas(records.Schemas())
	spec.AddPaths(cfg.API.BasePath, records.Paths())
	return spec
}
