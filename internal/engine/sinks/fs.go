package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/spf13/afero"
)

// FilesystemSink writes each report to `<id>.txt` below the root of fs.
type FilesystemSink struct {
	fs afero.Fs
}

var _ engine.BundleSink = (*FilesystemSink)(nil)

func NewFilesystemSink(fs afero.Fs) *FilesystemSink {
	return &FilesystemSink{fs: fs}
}

// NewFilesystemSinkFromPath creates the report directory dir and returns a
// sink that cannot write outside of it.
func NewFilesystemSinkFromPath(dir string) (*FilesystemSink, error) {
	dir = filepath.Clean(dir)
	osFs := afero.NewOsFs()

	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	return NewFilesystemSink(afero.NewBasePathFs(osFs, dir)), nil
}

func (s *FilesystemSink) Name() string {
	return fmt.Sprintf("filesystem(%s)", s.fs.Name())
}

func (s *FilesystemSink) Kind() string { return "filesystem" }

func (s *FilesystemSink) Write(_ context.Context, result engine.Result) error {
	return s.put(result.Filename(), bytes.NewReader(result.Report))
}

func (s *FilesystemSink) WriteBundle(_ context.Context, name string, data io.Reader) error {
	return s.put(name, data)
}

func (s *FilesystemSink) put(name string, data io.Reader) error {
	if err := afero.WriteReader(s.fs, name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *FilesystemSink) Close(context.Context) error { return nil }
