// Package internaldefs exposes the stable metric name definitions shared
// by exporter implementations.
//
// Counter definitions live here so the Prometheus and OTel exporters emit
// identical names. Changing a definition changes all exporters at once.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
