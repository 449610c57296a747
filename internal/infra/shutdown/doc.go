// Package shutdown provides graceful shutdown for nearhand.
//
// The handler waits for SIGINT or SIGTERM, then runs registered
// cleanup hooks in reverse registration order under a deadline, so the
// HTTP server drains before the storage engine closes.
package shutdown
