package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/roster/internal/api"
	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/infrastructure"
	"github.com/JaimeStill/roster/pkg/middleware"
	"github.com/JaimeStill/roster/pkg/module"
	"github.com/JaimeStill/roster/pkg/openapi"
	"github.com/JaimeStill/roster/web/docs"
)

const specPath = "/openapi.json"

type Modules struct {
	API  *module.Module
	Docs *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	docsModule, err := docs.NewModule("/docs", cfg.OpenAPI.Title, specPath)
	if err != nil {
		return nil, err
	}
	docsModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:  apiModule,
		Docs: docsModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Docs)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) (*module.Router, error) {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	specBytes, err := openapi.MarshalJSON(api.NewSpec(cfg))
	if err != nil {
		return nil, err
	}
	router.HandleNative("GET "+specPath, openapi.ServeSpec(specBytes))

	return router, nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
