// Package domain defines the core domain models for nearhand.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Account: Persisted identity record for a senior or volunteer
//   - Role: Tagged sum over the two account roles and their payloads
//   - HelpRequest: One senior's request for assistance and its lifecycle
//   - Errors: Domain-specific error definitions
package domain
