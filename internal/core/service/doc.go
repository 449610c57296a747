// Package service provides domain services for nearhand.
//
// Domain services contain the business logic and orchestrate operations
// on domain models over the storage engine's typed collections.
//
// This package contains:
//
//   - AccountService: signup, login, and public profile lookup
//   - RequestService: the help request lifecycle, from creation through
//     acceptance and completion, including the volunteer-facing
//     candidate listing
//
// Services are stateless and safe for concurrent use. Cross-collection
// writes go through a single engine transaction; a conflicting
// concurrent commit surfaces as storage.ErrConflict and is never
// retried implicitly, with one exception: requestHelp regenerates its
// candidate id until it finds an unused one.
package service
