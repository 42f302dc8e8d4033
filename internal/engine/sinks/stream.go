package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/infracollect/dataprobe/internal/engine"
)

// StreamSink prints every report to a single stream, typically stdout, each
// followed by a blank line.
type StreamSink struct {
	w io.Writer
}

var _ engine.Sink = (*StreamSink)(nil)

func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Name() string { return "stream" }
func (s *StreamSink) Kind() string { return "stream" }

func (s *StreamSink) Write(_ context.Context, result engine.Result) error {
	report := result.Report
	if !bytes.HasSuffix(report, []byte("\n")) {
		report = append(bytes.Clone(report), '\n')
	}

	if _, err := fmt.Fprintf(s.w, "%s\n", report); err != nil {
		return fmt.Errorf("failed to print report %s: %w", result.ID, err)
	}
	return nil
}

func (s *StreamSink) Close(context.Context) error { return nil }
