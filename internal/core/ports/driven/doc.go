// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageSource: Supplies page count, extracted blocks and page rasters
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Exporter: Produces an artifact from the reconciled block sequence.
//     Without exporters, save/export is unavailable.
//   - SessionStore: Persists review sessions. Without it, a session lives
//     only as long as the process.
//   - PageWatcher: Reports pages whose extraction output changed. Without
//     it, re-fetches are only ever user-initiated.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or exporter package
package driven
