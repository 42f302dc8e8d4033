// Package ingestors maps file extensions to the ingestor able to load them.
package ingestors

import (
	"fmt"
	"path/filepath"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/ingestors/zip"
	"go.uber.org/zap"
)

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *engine.Registry {
	registry := engine.NewRegistry(zap.NewNop())
	Register(registry, zip.Config{})
	return registry
}

// Register registers every built-in ingestor with the registry. zipCfg and
// opts configure the zip ingestor.
func Register(registry *engine.Registry, zipCfg zip.Config, opts ...zip.Option) {
	registry.RegisterIngestor(zip.Extension, func(logger *zap.Logger) (engine.Ingestor, error) {
		zipOpts := append([]zip.Option{zip.WithLogger(logger.Named(zip.IngestorKind))}, opts...)
		return zip.New(zipCfg, zipOpts...), nil
	})
}

// GetIngestor returns the default ingestor for extension (e.g., ".zip").
// It performs no I/O. Unknown extensions fail with engine.ErrUnsupportedFormat.
func GetIngestor(extension string) (engine.Ingestor, error) {
	return defaultRegistry.CreateIngestor(extension)
}

// ForPath resolves the ingestor for path from its extension.
func ForPath(registry *engine.Registry, path string) (engine.Ingestor, error) {
	ingestor, err := registry.CreateIngestor(filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("no ingestor for %s: %w", path, err)
	}
	return ingestor, nil
}
