// Package controller contains HTTP middlewares and response helpers used by
// the API server.
//
// Middlewares:
//   - WithCORS: permissive CORS headers plus OPTIONS preflight handling.
//   - WithLogger: request-scoped logger and request ID, plus an access log.
//
// Helpers:
//   - JSON / Error: JSON response writing with semantic error mapping.
//   - PprofMux: a ServeMux exposing net/http/pprof handlers.
package controller
