// Package operations orchestrates the housing data pipeline as an ordered
// sequence of steps: archive ingestion, outlier removal, missing value
// handling, train/test splitting, model training, evaluation and report
// export. Steps register themselves with a Registry, a Manager drives
// execution and a StatusBroadcaster publishes progress snapshots to any
// attached sink (the WebSocket hub in the server, a no-op in the CLI).
package operations
