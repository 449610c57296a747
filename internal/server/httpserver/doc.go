// Package httpserver provides the HTTP server for nearhand.
//
// It uses the standard library net/http with a middleware chain for
// panic recovery, CORS, request IDs, per-client rate limiting, and
// request metrics. The business API lives under /api/ and accepts
// POST with JSON bodies; the frontend build is served on GET when a
// static directory is configured.
package httpserver
