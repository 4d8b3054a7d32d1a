// Package http exposes the pipeline over a REST API.
//
// Endpoints:
//
//	POST /api/v1/operations       start a pipeline run (202 Accepted)
//	GET  /api/v1/operations/{id}  status snapshot of a run
//	GET  /api/v1/health           liveness probe
//	GET  /metrics                 Prometheus metrics
//	GET  /ws                      WebSocket status stream
package http
