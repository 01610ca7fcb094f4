// Package routing wraps chi with the route-registration surface the
// scaffold's providers use. Controllers register routes in their provider's
// Boot step, after every service they resolve is bound.
package routing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Router wraps chi.Router with grouping and resource helpers.
type Router struct {
	mux chi.Router
}

// New creates a Router with the default middleware stack: panic recovery,
// real-IP resolution, and structured request logging through logger.
func New(logger zerolog.Logger) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// requestLogger emits one structured line per completed request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			logger.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing this router's mount point. Middleware
// added inside the group applies only to routes registered there.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router mounted under pattern.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Resource routes ──────────────────────────────────────────────────────────

// ResourceController is the handler set Resource wires to RESTful routes:
//
//	GET    /users           → c.Index
//	POST   /users           → c.Store
//	GET    /users/{id}      → c.Show
//	PUT    /users/{id}      → c.Update
//	PATCH  /users/{id}      → c.Update
//	DELETE /users/{id}      → c.Destroy
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

func (r *Router) Resource(pattern string, c ResourceController) {
	r.mux.Get(pattern, c.Index)
	r.mux.Post(pattern, c.Store)
	r.mux.Get(pattern+"/{id}", c.Show)
	r.mux.Put(pattern+"/{id}", c.Update)
	r.mux.Patch(pattern+"/{id}", c.Update)
	r.mux.Delete(pattern+"/{id}", c.Destroy)
}

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves a filesystem directory at the given prefix.
// e.g. router.Static("/public", "./public")
func (r *Router) Static(prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL parameter captured by the route pattern.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
