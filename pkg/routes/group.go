package routes

import "net/http"

// Group organizes routes under a common prefix. Children inherit the
// accumulated prefix of every ancestor.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.walk("", func(pattern string, route Route) {
			mux.HandleFunc(pattern, route.Handler)
		})
	}
}

// Patterns returns the full ServeMux pattern of every route in the group tree,
// in registration order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ Route) {
		out = append(out, pattern)
	})
	return out
}

func (g Group) walk(parentPrefix string, fn func(string, Route)) {
	prefix := parentPrefix + g.Prefix
	for _, route := range g.Routes {
		fn(route.pattern(prefix), route)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}
