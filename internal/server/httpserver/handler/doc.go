// Package handler provides HTTP request handlers for nearhand.
//
// All business endpoints live under /api/ and accept POST with a JSON
// body. Authenticated endpoints carry the bearer token in the body's
// "authorization" field rather than a header; the frontend submits
// whole forms as one JSON document.
package handler
