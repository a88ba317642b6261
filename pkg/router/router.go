package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/stockpile/pkg/response"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered method+path.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	routes map[string]string
	infos  []RouteInfo
	mu     sync.RWMutex
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

// candidateMethods are probed to build the 405 message.
var candidateMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// New returns a router that accepts an optional trailing slash on every path
// and answers wrong-method requests with a JSON 405 naming the allowed methods.
func New() *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		routes: make(map[string]string),
	}
	r.mux.Use(chimw.StripSlashes)
	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not found.")
	})
	r.mux.MethodNotAllowed(r.methodNotAllowed)
	return r
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (r *Router) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount([]string{http.MethodPost}, path, name, handler, middlewares...)
}

// HandleFunc mounts handler for every method on path, unnamed.
func (r *Router) HandleFunc(path string, handler http.HandlerFunc) {
	r.mux.HandleFunc(normalizePath(path), handler)
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.routes[name]
	return path, ok
}

func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = replaceParam(path, key, value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes returns every registered method+path in registration order.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.infos...)
}

func (r *Router) mount(methods []string, path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.register(methods, normalizePath(path), name, chain(handler, middlewares...))
}

func (r *Router) register(methods []string, fullPath, name string, h http.Handler) {
	for _, m := range methods {
		r.mux.Method(m, fullPath, h)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range methods {
		r.infos = append(r.infos, RouteInfo{Method: m, Path: fullPath, Name: name})
	}
	if name != "" {
		r.routes[name] = fullPath
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePath != "" {
		path = rctx.RoutePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	var allowed []string
	for _, m := range candidateMethods {
		if r.mux.Match(chi.NewRouteContext(), m, path) {
			allowed = append(allowed, m)
		}
	}
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}

	response.Error(w, http.StatusMethodNotAllowed,
		fmt.Sprintf("Request method %s not allowed, use %s", req.Method, joinOr(allowed)))
}

// joinOr renders ["PUT","PATCH"] as "PUT or PATCH".
func joinOr(methods []string) string {
	switch len(methods) {
	case 0:
		return "a supported method"
	case 1:
		return methods[0]
	default:
		return strings.Join(methods[:len(methods)-1], ", ") + " or " + methods[len(methods)-1]
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	joined := joinPath(g.prefix, prefix)
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)

	return &Group{
		router:      g.router,
		prefix:      joined,
		middlewares: combined,
	}
}

func (g *Group) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (g *Group) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodPost}, path, name, handler, middlewares...)
}

func (g *Group) Put(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodPut}, path, name, handler, middlewares...)
}

func (g *Group) Patch(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodPatch}, path, name, handler, middlewares...)
}

func (g *Group) Delete(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodDelete}, path, name, handler, middlewares...)
}

// Update mounts handler for both PUT and PATCH.
func (g *Group) Update(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount([]string{http.MethodPut, http.MethodPatch}, path, name, handler, middlewares...)
}

func (g *Group) mount(methods []string, path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.register(methods, joinPath(g.prefix, path), name, chain(handler, combined...))
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// replaceParam substitutes {key} and {key:regex} placeholders.
func replaceParam(path, key, value string) string {
	path = strings.ReplaceAll(path, "{"+key+"}", value)
	prefix := "{" + key + ":"
	for {
		i := strings.Index(path, prefix)
		if i < 0 {
			return path
		}
		j := strings.Index(path[i:], "}")
		if j < 0 {
			return path
		}
		path = path[:i] + value + path[i+j+1:]
	}
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}
