package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"housingml/internal/config"
	"housingml/internal/dataset"
	"housingml/internal/errors"
)

// Ingestor loads a tabular dataset from a data file
type Ingestor interface {
	// Ingest reads the file at path and returns its content as a Table
	Ingest(ctx context.Context, path string) (*dataset.Table, error)
}

// ZipIngestor ingests a zip archive containing exactly one CSV file
type ZipIngestor struct {
	paths *config.Paths
}

// NewZipIngestor creates a zip ingestor that extracts archives into isolated
// run directories under the configured extraction directory.
func NewZipIngestor(paths *config.Paths) *ZipIngestor {
	return &ZipIngestor{paths: paths}
}

// Ingest extracts the archive and parses the single CSV file it contains.
// Each call extracts into a fresh uniquely-named directory so repeated runs
// never see each other's files.
func (z *ZipIngestor) Ingest(ctx context.Context, path string) (*dataset.Table, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return nil, errors.NewInvalidFormat(path)
	}

	destDir := z.paths.RunExtractDir(uuid.NewString())

	slog.InfoContext(ctx, "ingesting archive",
		slog.String("archive", path),
		slog.String("extract_dir", destDir))

	if err := extractZip(path, destDir); err != nil {
		return nil, err
	}

	csvPath, err := discoverTabularFile(destDir)
	if err != nil {
		return nil, err
	}

	table, err := dataset.ReadCSV(csvPath)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "archive ingested",
		slog.String("csv_file", filepath.Base(csvPath)),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumCols()))

	return table, nil
}
