// Package prometheus renders authclient lifecycle counters in Prometheus
// text exposition format.
//
// [NewPrometheusExporter] accepts an [authclient.Client] and exposes an
// [http.Handler]. Counter names are prefixed authclient_ and suffixed
// _total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the
//     Handler themselves.
//   - Mutate client state.
package prometheus
