package ingest

import (
	"strings"
	"sync"

	"housingml/internal/config"
	"housingml/internal/errors"
)

// Factory maps file extensions to ingestor constructors
type Factory struct {
	mu       sync.RWMutex
	builders map[string]func() Ingestor
}

// NewFactory creates a factory with the zip ingestor registered.
// Archives extract into isolated run directories under the configured layout.
func NewFactory(paths *config.Paths) *Factory {
	f := &Factory{builders: make(map[string]func() Ingestor)}
	f.Register(".zip", func() Ingestor { return NewZipIngestor(paths) })
	return f
}

// Register associates an extension with an ingestor constructor.
// Registering an extension again replaces the previous constructor.
func (f *Factory) Register(extension string, builder func() Ingestor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[normalizeExt(extension)] = builder
}

// Create returns an ingestor for the given file extension
func (f *Factory) Create(extension string) (Ingestor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	builder, ok := f.builders[normalizeExt(extension)]
	if !ok {
		return nil, errors.NewUnsupportedFormat(extension)
	}
	return builder(), nil
}

// Extensions returns the registered extensions
func (f *Factory) Extensions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	exts := make([]string, 0, len(f.builders))
	for ext := range f.builders {
		exts = append(exts, ext)
	}
	return exts
}

func normalizeExt(extension string) string {
	ext := strings.ToLower(strings.TrimSpace(extension))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
