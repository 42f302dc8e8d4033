package sinks

import (
	"context"
	"fmt"
	"strings"

	"github.com/infracollect/dataprobe/internal/engine"
)

// ArchiveSink collects every result into one archive and hands the finished
// bundle to its inner sink on Close.
type ArchiveSink struct {
	inner    engine.BundleSink
	archiver engine.Archiver
	bundle   string
}

var _ engine.Sink = (*ArchiveSink)(nil)

// NewArchiveSink names the bundle after name, adding the archiver's extension
// when name lacks it.
func NewArchiveSink(inner engine.BundleSink, archiver engine.Archiver, name string) *ArchiveSink {
	if !strings.HasSuffix(name, archiver.Extension()) {
		name += archiver.Extension()
	}

	return &ArchiveSink{inner: inner, archiver: archiver, bundle: name}
}

func (s *ArchiveSink) Name() string {
	return fmt.Sprintf("archive(%s)->%s", s.bundle, s.inner.Name())
}

func (s *ArchiveSink) Kind() string { return "archive" }

func (s *ArchiveSink) Write(ctx context.Context, result engine.Result) error {
	if err := s.archiver.Add(ctx, result); err != nil {
		return fmt.Errorf("failed to archive inspection %s: %w", result.ID, err)
	}
	return nil
}

func (s *ArchiveSink) Close(ctx context.Context) error {
	bundle, err := s.archiver.Close()
	if err != nil {
		return fmt.Errorf("failed to finalize %s: %w", s.bundle, err)
	}

	if err := s.inner.WriteBundle(ctx, s.bundle, bundle); err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", s.bundle, s.inner.Name(), err)
	}

	return s.inner.Close(ctx)
}
