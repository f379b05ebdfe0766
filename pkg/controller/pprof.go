package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux builds a mux exposing the runtime profiling endpoints of
// net/http/pprof. The server mounts it under /debug/pprof/, keeping the
// profiling surface separate from the versioned API routes.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)

	return mux
}
