package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeArchive(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, "archive.zip")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := app.Run(t.Context(), append([]string{"dataprobe", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestInspectCommand(t *testing.T) {
	archive := writeArchive(t, t.TempDir(), map[string]string{"data.csv": "A,B\n1,x\n2,y\n"})

	t.Run("default strategies in order", func(t *testing.T) {
		out, err := runApp(t, "inspect", archive)
		require.NoError(t, err)

		types := strings.Index(out, "Data Types and Non-null Counts")
		summary := strings.Index(out, "Summary Statistics (Numerical Features):")
		require.NotEqual(t, -1, types)
		require.NotEqual(t, -1, summary)
		assert.Less(t, types, summary)
	})

	t.Run("selected strategy", func(t *testing.T) {
		out, err := runApp(t, "inspect", "--strategy", "summary_statistics", archive)
		require.NoError(t, err)
		assert.Contains(t, out, "Summary Statistics (Categorical Features):")
		assert.NotContains(t, out, "Data Types and Non-null Counts")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := runApp(t, "inspect", "--strategy", "histogram", archive)
		assert.ErrorIs(t, err, engine.ErrUnsupportedStrategy)
	})
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, map[string]string{"data.csv": "A,B\n1,x\n2,y\n"})

	out, err := runApp(t, "ingest", "--rows", "1", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded dataset: 2 rows, 2 columns")
	assert.Regexp(t, `A\s+B\n1\s+x\n`, out)
	assert.NotRegexp(t, `2\s+y`, out)

	_, err = runApp(t, "ingest", filepath.Join(dir, "data.tar"))
	assert.ErrorIs(t, err, engine.ErrUnsupportedFormat)

	_, err = runApp(t, "ingest", "--delimiter", ";;", archive)
	assert.Error(t, err)
}

func TestIngestCommand_WorkDir(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, map[string]string{"data.csv": "A\n1\n"})
	workDir := filepath.Join(dir, "extracted_data")

	_, err := runApp(t, "ingest", "--work-dir", workDir, archive)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(workDir, "data.csv"))
}

func TestRunAndValidateCommands(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, map[string]string{"data.csv": "A,B\n1,x\n2,y\n"})
	reports := filepath.Join(dir, "reports")

	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte(`
kind: InspectJob
metadata:
  name: local
spec:
  source:
    path: ${ARCHIVE}
  output:
    sink:
      filesystem:
        path: `+reports+`
        prefix: ${JOB_NAME}
`), 0644))
	t.Setenv("ARCHIVE", archive)

	_, err := runApp(t, "validate", "--allowed-env", "ARCHIVE", job)
	require.NoError(t, err)

	_, err = runApp(t, "validate", job)
	require.Error(t, err, "ARCHIVE is not allowed")

	_, err = runApp(t, "run", "--allowed-env", "ARCHIVE", job)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(reports, "local", "data_types.txt"))
	assert.FileExists(t, filepath.Join(reports, "local", "summary_statistics.txt"))
}

func TestValidateCommand_Invalid(t *testing.T) {
	job := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("kind: InspectJob\nspec: {}\n"), 0644))

	out, err := runApp(t, "validate", job)
	require.Error(t, err)
	assert.Contains(t, out, "validation error")
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
