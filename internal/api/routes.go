package api

import (
	"net/http"

	"github.com/JaimeStill/roster/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Records.Handler(runtime.MaxBodySize).Routes(),
	)
}
