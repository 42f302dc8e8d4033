package sinks

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/engine/archivers"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bundleRecorder keeps every bundle handed to it.
type bundleRecorder struct {
	bundles map[string][]byte
	results []engine.Result
	closed  bool
}

func newBundleRecorder() *bundleRecorder {
	return &bundleRecorder{bundles: make(map[string][]byte)}
}

func (m *bundleRecorder) Name() string { return "recorder" }
func (m *bundleRecorder) Kind() string { return "recorder" }

func (m *bundleRecorder) Write(_ context.Context, result engine.Result) error {
	m.results = append(m.results, result)
	return nil
}

func (m *bundleRecorder) WriteBundle(_ context.Context, name string, data io.Reader) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.bundles[name] = content
	return nil
}

func (m *bundleRecorder) Close(context.Context) error {
	m.closed = true
	return nil
}

func gzipTarMembers(t *testing.T, data []byte) map[string]string {
	t.Helper()
	gr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gr.Close()

	tr := tar.NewReader(gr)
	found := make(map[string]string)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		found[h.Name] = string(content)
	}
	return found
}

func newGzipArchiveSink(t *testing.T, name string) (*ArchiveSink, *bundleRecorder) {
	t.Helper()
	archiver, err := archivers.NewTarArchiver("gzip")
	require.NoError(t, err)
	inner := newBundleRecorder()
	return NewArchiveSink(inner, archiver, name), inner
}

func TestArchiveSink_Results(t *testing.T) {
	sink, inner := newGzipArchiveSink(t, "housing")
	ctx := t.Context()

	require.NoError(t, sink.Write(ctx, engine.Result{ID: "types", Kind: "data_types", Report: []byte("Data Types and Non-null Counts\n")}))
	require.NoError(t, sink.Write(ctx, engine.Result{ID: "summary", Kind: "summary_statistics", Report: []byte("Summary Statistics\n")}))

	assert.Empty(t, inner.bundles, "nothing is written before Close")
	require.NoError(t, sink.Close(ctx))

	require.Len(t, inner.bundles, 1)
	require.Contains(t, inner.bundles, "housing.tar.gz")
	assert.Empty(t, inner.results, "reports only reach the inner sink inside the bundle")

	members := gzipTarMembers(t, inner.bundles["housing.tar.gz"])
	assert.Equal(t, "Data Types and Non-null Counts\n", members["types.txt"])
	assert.Equal(t, "Summary Statistics\n", members["summary.txt"])
	assert.Contains(t, members[archivers.ManifestName], "kind: summary_statistics")
	assert.True(t, inner.closed, "inner sink should be closed")
}

func TestArchiveSink_DuplicateInspection(t *testing.T) {
	sink, _ := newGzipArchiveSink(t, "housing")

	require.NoError(t, sink.Write(t.Context(), engine.Result{ID: "types"}))
	err := sink.Write(t.Context(), engine.Result{ID: "types"})
	assert.ErrorContains(t, err, "inspection types")
}

func TestArchiveSink_KeepsExistingExtension(t *testing.T) {
	sink, inner := newGzipArchiveSink(t, "reports.tar.gz")
	require.NoError(t, sink.Close(t.Context()))
	assert.Contains(t, inner.bundles, "reports.tar.gz")
}

func TestArchiveSink_NameAndKind(t *testing.T) {
	sink, _ := newGzipArchiveSink(t, "output")
	assert.Equal(t, "archive(output.tar.gz)->recorder", sink.Name())
	assert.Equal(t, "archive", sink.Kind())
}
