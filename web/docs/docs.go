// Package docs serves an interactive API reference page for the OpenAPI document.
package docs

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/roster/pkg/module"
)

// ScriptURL is the Scalar API reference bundle loaded by the page.
const ScriptURL = "https://cdn.jsdelivr.net/npm/@scalar/api-reference"

//go:embed index.html
var staticFS embed.FS

type page struct {
	Title     string
	SpecURL   string
	ScriptURL string
}

// NewModule creates a module that serves the API reference at basePath,
// rendering the OpenAPI document found at specURL.
func NewModule(basePath, title, specURL string) (*module.Module, error) {
	router, err := buildRouter(title, specURL)
	if err != nil {
		return nil, err
	}
	return module.New(basePath, router), nil
}

func buildRouter(title, specURL string) (http.Handler, error) {
	tmpl, err := template.ParseFS(staticFS, "index.html")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page{Title: title, SpecURL: specURL, ScriptURL: ScriptURL}); err != nil {
		return nil, err
	}
	rendered := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(rendered)
	})

	return mux, nil
}
