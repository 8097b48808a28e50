// Package devtools provides observability for the reactive engine:
// Prometheus metrics, OpenTelemetry tracing, and an HTTP inspector that
// streams engine events to connected clients over WebSocket.
//
// Everything in this package hangs off the engine's Observer seam. A
// typical setup fans one observer out to every consumer:
//
//	metrics := devtools.NewMetrics()
//	srv := devtools.NewServer(devtools.WithMetrics(metrics))
//	reactive.SetObserver(srv.Observer())
//	go srv.ListenAndServe(ctx)
package devtools
