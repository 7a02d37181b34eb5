// Package orchestrator wires the spec source -> transformer -> interpreter ->
// renderer pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
