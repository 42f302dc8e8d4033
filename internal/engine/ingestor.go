package engine

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// Ingestor converts a raw file into a tabular dataset.
type Ingestor interface {
	Named

	// Ingest loads the file at path. Implementations validate the path before
	// touching the filesystem.
	Ingest(ctx context.Context, path string) (dataframe.DataFrame, error)

	// Extension returns the file extension handled by this ingestor (e.g., ".zip").
	Extension() string
}
