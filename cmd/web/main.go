// Command web serves the pipeline over HTTP with WebSocket status streaming
// and Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"housingml/internal/app"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	application, err := app.NewApplication(*configFile)
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
