// Command pipeline runs the housing price training pipeline once against a
// zip archive and writes the run report to the reports directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"housingml/internal/config"
	"housingml/internal/infrastructure"
	"housingml/internal/operations"
)

func main() {
	archive := flag.String("archive", "", "path to the input zip archive (required)")
	target := flag.String("target", "", "target column to predict (defaults to the configured column)")
	step := flag.String("step", "", "run a single pipeline step instead of the full pipeline")
	configFile := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	if *archive == "" {
		fmt.Fprintln(os.Stderr, "usage: pipeline -archive <file.zip> [-target <column>] [-config <file>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		logger.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to create directories", "error", err)
		os.Exit(1)
	}

	registry := operations.NewRegistry()
	if err := operations.RegisterPipeline(registry, cfg, paths, nil); err != nil {
		logger.Error("failed to register pipeline steps", "error", err)
		os.Exit(1)
	}
	manager := operations.NewManager(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, traceID := infrastructure.EnsureTraceID(ctx)

	logger.Info("pipeline run starting",
		"archive", *archive,
		"trace_id", traceID)

	resp, err := manager.Execute(ctx, operations.OperationRequest{
		ArchivePath:  *archive,
		TargetColumn: *target,
		Step:         *step,
	})
	if err != nil {
		logger.Error("pipeline failed",
			"operation_id", resp.ID,
			"error", err)
		os.Exit(1)
	}

	logger.Info("pipeline completed",
		"operation_id", resp.ID,
		"duration", resp.Duration.String())

	fmt.Printf("operation %s finished in %s\n", resp.ID, resp.Duration.Round(time.Millisecond))
	if resp.ReportPath != "" {
		fmt.Printf("report written to %s\n", resp.ReportPath)
	}
}
