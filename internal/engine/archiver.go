package engine

import (
	"context"
	"io"
)

// Archiver bundles inspection results into a single archive.
type Archiver interface {
	// Add stores the report of result. Each inspection ID may be added once.
	Add(ctx context.Context, result Result) error

	// Close finalizes the archive and returns its content.
	Close() (io.Reader, error)

	// Extension returns the file extension of the archive, such as ".tar.gz".
	Extension() string
}
