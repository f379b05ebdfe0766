package registry

import "net/http"

// Router lets domains register HTTP routes without knowing about the server
// or the authentication middleware. Protected routes are wrapped with the
// configured middleware; public routes are mounted as-is.
type Router struct {
	mux     *http.ServeMux
	protect func(http.Handler) http.Handler
}

// NewRouter creates a Router on top of mux. protect wraps every route
// registered with Handle; pass nil to mount everything unprotected (useful
// in tests).
func NewRouter(mux *http.ServeMux, protect func(http.Handler) http.Handler) *Router {
	return &Router{
		mux:     mux,
		protect: protect,
	}
}

// Handle mounts a route behind the authentication middleware.
func (r *Router) Handle(pattern string, handler http.Handler) {
	if r.protect != nil {
		handler = r.protect(handler)
	}
	r.mux.Handle(pattern, handler)
}

// HandleFunc is the http.HandlerFunc variant of Handle.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.Handle(pattern, handler)
}

// HandlePublic mounts a route without authentication.
func (r *Router) HandlePublic(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// HandlePublicFunc is the http.HandlerFunc variant of HandlePublic.
func (r *Router) HandlePublicFunc(pattern string, handler http.HandlerFunc) {
	r.HandlePublic(pattern, handler)
}
