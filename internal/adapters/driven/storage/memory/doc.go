// Package memory provides in-memory implementations of driven ports.
// They back the "memory" storage backend and serve as fakes in tests.
//
// Adapters:
//   - ConfigStore: map-backed configuration
//   - SessionStore: map-backed review session snapshots
package memory
