// Package auth implements the stateless bearer token protocol and
// password hashing for nearhand.
//
// Tokens are self-contained: a username, an expiration timestamp, a
// random nonce, and a MAC over those fields under a process-lifetime
// secret key. No server-side session state exists; validity is fully
// determined by the token's own contents plus the live key. All tokens
// issued before a process restart become invalid after it, which is an
// accepted tradeoff of the design.
package auth
