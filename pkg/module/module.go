package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/roster/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner router
// with its own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to the inner router.
// Escaped path segments (such as %2F inside a path value) survive the strip.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	request := cloneRequest(req,
		extractPath(req.URL.Path, m.prefix),
		extractRawPath(req.URL.RawPath, m.prefix),
	)
	m.Handler().ServeHTTP(w, request)
}

// Use appends middleware to the module's stack, outermost first.
func (m *Module) Use(mw ...middleware.Func) {
	m.middleware.Use(mw...)
}

func cloneRequest(req *http.Request, path, rawPath string) *http.Request {
	request := req.Clone(req.Context())
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = rawPath
	return request
}

func extractRawPath(rawPath, prefix string) string {
	if rawPath == "" || !strings.HasPrefix(rawPath, prefix) {
		return ""
	}
	return extractPath(rawPath, prefix)
}

func extractPath(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
