// Package coil provides the two launcher elements: the moving Capsule and
// the fixed, capacitor-driven Stage. Both embed an element value that
// carries the geometry, the current and the memoized self-inductance, and
// both satisfy physics.Element.
package coil
