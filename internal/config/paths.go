package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves and owns the directory layout used by the pipeline
type Paths struct {
	DataDir    string
	ExtractDir string
	ReportsDir string
	LogsDir    string
}

// NewPaths creates a Paths instance from configuration, resolving relative
// directories against the current working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	p := &Paths{
		DataDir:    cfg.DataDir,
		ExtractDir: cfg.ExtractDir,
		ReportsDir: cfg.ReportsDir,
		LogsDir:    cfg.LogsDir,
	}

	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	p.DataDir = resolve(base, p.DataDir)
	p.ExtractDir = resolve(base, p.ExtractDir)
	p.ReportsDir = resolve(base, p.ReportsDir)
	p.LogsDir = resolve(base, p.LogsDir)

	return p, nil
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all configured directories if they do not exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ExtractDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RunExtractDir returns an isolated extraction directory for a single run.
// Each run extracts into its own directory so repeated or concurrent runs
// never collide on shared output.
func (p *Paths) RunExtractDir(runID string) string {
	return filepath.Join(p.ExtractDir, "run-"+runID)
}

// ReportPath returns the path of a report file inside the reports directory
func (p *Paths) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}
