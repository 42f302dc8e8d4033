package sources

import (
	"context"
	"fmt"
)

const FileSourceKind = "file"

// FileSource points at an archive already on the local filesystem.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return fmt.Sprintf("%s(%s)", FileSourceKind, s.path)
}

func (s *FileSource) Kind() string {
	return FileSourceKind
}

func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	return s.path, nil
}

func (s *FileSource) Close(ctx context.Context) error {
	return nil
}
