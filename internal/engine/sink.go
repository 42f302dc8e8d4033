package engine

import (
	"context"
	"io"
)

// Sink is a destination for inspection results (stdout, folder, S3, archive).
type Sink interface {
	Named
	Closer

	// Write stores the report of one inspection.
	Write(ctx context.Context, result Result) error
}

// BundleSink is a Sink that can also store a finished archive of reports.
type BundleSink interface {
	Sink

	WriteBundle(ctx context.Context, name string, data io.Reader) error
}
