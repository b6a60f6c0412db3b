package ctl

import (
	"context"
	"log/slog"
	"strings"
)

// Request contains route parameters and the payload following the path.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response. The logger is
// scoped to the connection.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// Router matches slash separated paths with {name} placeholders.
type Router struct {
	routes []routeEntry
}

type routeEntry struct {
	parts    []string
	original []string
	handler  HandlerFunc
}

func NewRouter() *Router { return &Router{} }

// Register adds a handler for a pattern like "key/{name}". Matching is case
// insensitive; placeholder names keep their case.
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, routeEntry{
		parts:    strings.Split(strings.ToLower(pattern), "/"),
		original: strings.Split(pattern, "/"),
		handler:  handler,
	})
}

// Match returns the handler and params for path, or nil if no route matches.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.routes {
		if params, ok := rt.match(parts); ok {
			return rt.handler, params
		}
	}
	return nil, nil
}

func (rt routeEntry) match(parts []string) (map[string]string, bool) {
	if len(rt.parts) != len(parts) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range rt.parts {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			name := rt.original[i][1 : len(rt.original[i])-1]
			params[name] = parts[i]
			continue
		}
		if p != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// Routes lists the registered patterns.
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, strings.Join(rt.original, "/"))
	}
	return out
}
