package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"housingml/internal/errors"
)

// extractZip decompresses every entry of the archive at path into destDir.
// Entries overwrite existing files of the same name. Partially extracted
// files are left in place on failure.
func extractZip(path, destDir string) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return errors.NewArchiveRead(path, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create extraction directory %s: %w", destDir, err)
	}

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir); err != nil {
			return errors.NewArchiveRead(path, err)
		}
	}

	slog.Info("archive extracted",
		slog.String("archive", path),
		slog.String("destination", destDir),
		slog.Int("entries", len(reader.File)))

	return nil
}

// extractEntry writes a single archive entry under destDir
func extractEntry(entry *zip.File, destDir string) error {
	target := filepath.Join(destDir, entry.Name)

	// Reject entries that would escape the extraction directory
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal entry path: %s", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract entry %s: %w", entry.Name, err)
	}

	return nil
}
