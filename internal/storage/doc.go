// Package storage provides the persistent store for nearhand.
//
// The store is built on Badger, an embedded LSM key-value engine.
// A single Engine holds one Badger database; named collections are
// independent keyspaces realized as key prefixes, so a single Badger
// transaction can span any set of collections.
//
// The package offers three access levels:
//
//   - Collection[V]: typed per-collection operations (Get, Put, Delete,
//     Contains, Iterate) and a single-key transactional Update
//   - Engine.Transaction: a cross-collection unit of work with
//     all-or-nothing commit and conflict detection
//   - Engine.View: a read-only snapshot over any set of collections
//
// Values are serialized as JSON. A value that fails to decode is
// surfaced as an error to the caller, never silently dropped.
package storage
