package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
// An empty Method registers the pattern for every method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

func (r Route) pattern(prefix string) string {
	if r.Method == "" {
		return prefix + r.Pattern
	}
	return r.Method + " " + prefix + r.Pattern
}
