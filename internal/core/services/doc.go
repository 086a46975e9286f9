// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The correction, reconciliation and transform functions are pure;
// ReviewService is the only type here that holds a lock.
//
// Services are pure Go with no CGO dependencies.
package services
