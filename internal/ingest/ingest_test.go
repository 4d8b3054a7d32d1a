package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housingml/internal/config"
	"housingml/internal/errors"
)

// writeZip creates a zip archive at path containing the given entries
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := zip.NewWriter(file)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

// extractPaths returns a Paths layout whose extraction directory is extractDir
func extractPaths(extractDir string) *config.Paths {
	return &config.Paths{ExtractDir: extractDir}
}

const housingCSV = "Lot Area,Year Built,SalePrice\n8450,2003,208500\n9600,1976,181500\n11250,2001,223500\n"

func TestZipIngestorHappyPath(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "archive.zip")
	writeZip(t, archive, map[string]string{"AmesHousing.csv": housingCSV})

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	table, err := ingestor.Ingest(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, 3, table.NumCols())
	assert.Equal(t, []string{"Lot Area", "Year Built", "SalePrice"}, table.Columns())
}

func TestZipIngestorRejectsNonZipExtension(t *testing.T) {
	ingestor := NewZipIngestor(extractPaths(t.TempDir()))

	_, err := ingestor.Ingest(context.Background(), "/data/archive.txt")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidFormat))
}

func TestZipIngestorCorruptArchive(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "broken.zip")
	require.NoError(t, os.WriteFile(archive, []byte("this is not a zip"), 0644))

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	_, err := ingestor.Ingest(context.Background(), archive)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeArchiveRead))
}

func TestZipIngestorNoCSV(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "archive.zip")
	writeZip(t, archive, map[string]string{"readme.txt": "no data here"})

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	_, err := ingestor.Ingest(context.Background(), archive)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestZipIngestorMultipleCSV(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "archive.zip")
	writeZip(t, archive, map[string]string{
		"train.csv": housingCSV,
		"test.csv":  housingCSV,
	})

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	_, err := ingestor.Ingest(context.Background(), archive)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAmbiguousInput))
}

func TestZipIngestorIgnoresNestedCSV(t *testing.T) {
	// Discovery is non-recursive: a CSV inside a subdirectory does not count
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "archive.zip")
	writeZip(t, archive, map[string]string{
		"AmesHousing.csv": housingCSV,
		"nested/more.csv": housingCSV,
	})

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	table, err := ingestor.Ingest(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, 3, table.NumRows())
}

func TestZipIngestorRunsAreIsolated(t *testing.T) {
	// A CSV left behind by a previous run must not make a later run ambiguous
	tmpDir := t.TempDir()
	extractBase := filepath.Join(tmpDir, "extracted")
	archive := filepath.Join(tmpDir, "archive.zip")
	writeZip(t, archive, map[string]string{"AmesHousing.csv": housingCSV})

	paths := extractPaths(extractBase)
	ingestor := NewZipIngestor(paths)

	_, err := ingestor.Ingest(context.Background(), archive)
	require.NoError(t, err)
	_, err = ingestor.Ingest(context.Background(), archive)
	require.NoError(t, err)

	runs, err := os.ReadDir(extractBase)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// Extraction directories follow the configured per-run layout
	for _, run := range runs {
		assert.True(t, strings.HasPrefix(run.Name(), "run-"))
		runID := strings.TrimPrefix(run.Name(), "run-")
		assert.Equal(t, filepath.Join(extractBase, run.Name()), paths.RunExtractDir(runID))
	}
}

func TestZipIngestorRejectsPathTraversal(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "evil.zip")

	file, err := os.Create(archive)
	require.NoError(t, err)
	w := zip.NewWriter(file)
	entry, err := w.Create("../escape.csv")
	require.NoError(t, err)
	_, err = entry.Write([]byte("a\n1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())

	ingestor := NewZipIngestor(extractPaths(filepath.Join(tmpDir, "extracted")))
	_, err = ingestor.Ingest(context.Background(), archive)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeArchiveRead))
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory(extractPaths(t.TempDir()))

	tests := []struct {
		name      string
		extension string
		wantErr   bool
	}{
		{name: "zip is registered", extension: ".zip", wantErr: false},
		{name: "uppercase zip", extension: ".ZIP", wantErr: false},
		{name: "missing dot is normalized", extension: "zip", wantErr: false},
		{name: "json is unsupported", extension: ".json", wantErr: true},
		{name: "txt is unsupported", extension: ".txt", wantErr: true},
		{name: "empty extension", extension: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestor, err := factory.Create(tt.extension)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.CodeUnsupportedFormat))
				assert.Nil(t, ingestor)
			} else {
				require.NoError(t, err)
				assert.IsType(t, &ZipIngestor{}, ingestor)
			}
		})
	}
}

func TestFactoryRegisterCustom(t *testing.T) {
	factory := NewFactory(extractPaths(t.TempDir()))

	called := false
	factory.Register(".zip", func() Ingestor {
		called = true
		return NewZipIngestor(extractPaths(t.TempDir()))
	})

	_, err := factory.Create(".zip")
	require.NoError(t, err)
	assert.True(t, called)
}
