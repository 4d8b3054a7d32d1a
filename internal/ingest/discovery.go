package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"housingml/internal/errors"
)

// findCSVFiles lists the CSV files among the immediate entries of dir.
// The scan is intentionally non-recursive.
func findCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// discoverTabularFile returns the single CSV file in dir. Zero candidates
// fail with a not-found error, more than one with an ambiguous-input error.
func discoverTabularFile(dir string) (string, error) {
	files, err := findCSVFiles(dir)
	if err != nil {
		return "", err
	}

	switch len(files) {
	case 0:
		return "", errors.NewNotFound(dir)
	case 1:
		return files[0], nil
	default:
		return "", errors.NewAmbiguousInput(dir, len(files))
	}
}
