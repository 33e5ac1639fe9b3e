// Package otel provides OpenTelemetry metric bindings for authclient
// counters.
//
// [NewOTelExporter] registers one Int64ObservableCounter per metric and a
// single callback that reads a fresh snapshot on each collection cycle.
//
// # What this package must NOT do
//
//   - Install a global meter provider; callers own SDK setup.
//   - Mutate client state.
package otel
