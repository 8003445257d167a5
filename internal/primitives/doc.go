// Package primitives provides the foundational, zero-dependency value types
// shared by the arbiter, the look synchronizer and the tick runtime.
//
// This package uses ONLY the Go standard library.
//
// Core invariants:
// - Commands and rotations are immutable values
// - Tick notifications carry the tick number they belong to
// - RotationMoveEvent is the only mutable event (the hook may rewrite its yaw)
package primitives
