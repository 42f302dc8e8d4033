package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// readJobFile reads a job from filename, or from stdin when filename is "-".
// It also returns a display name for the job source.
func readJobFile(ctx context.Context, filename string) ([]byte, string, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read job from stdin: %w", err)
		}
		return data, "<stdin>", nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", err
	}

	return data, filepath.Base(filename), nil
}
