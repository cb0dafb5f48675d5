// Package server exposes the Prometheus metrics of a running drivemenu
// session on a dedicated HTTP listener.
//
// The menu itself has no network surface; the metrics server only runs when
// instrumentation is enabled with the prometheus exporter and a listen
// address is given (--metrics-addr).
package server
