package sinks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUploader struct {
	uploads []mockUpload
	err     error
}

type mockUpload struct {
	bucket      string
	key         string
	body        string
	contentType string
	metadata    map[string]string
}

func (m *mockUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.uploads = append(m.uploads, mockUpload{
		bucket:      aws.ToString(input.Bucket),
		key:         aws.ToString(input.Key),
		body:        string(body),
		contentType: aws.ToString(input.ContentType),
		metadata:    input.Metadata,
	})
	return &manager.UploadOutput{}, nil
}

func TestS3Sink_Name(t *testing.T) {
	assert.Equal(t, "s3(my-bucket)", NewS3SinkWithUploader("my-bucket", "", &mockUploader{}).Name())
	assert.Equal(t, "s3(my-bucket/reports)", NewS3SinkWithUploader("my-bucket", "reports", &mockUploader{}).Name())
	assert.Equal(t, "s3", NewS3SinkWithUploader("my-bucket", "", &mockUploader{}).Kind())
}

func TestS3Sink_Write(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		id      string
		wantKey string
	}{
		{name: "without prefix", id: "types", wantKey: "types.txt"},
		{name: "with prefix", prefix: "housing/2024", id: "summary", wantKey: "housing/2024/summary.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &mockUploader{}
			sink := NewS3SinkWithUploader("my-bucket", tt.prefix, uploader)

			result := engine.Result{
				ID:     tt.id,
				Kind:   "data_types",
				Report: []byte("report"),
				Meta:   map[string]string{engine.MetaRows: "20640", engine.MetaColumns: "10"},
			}
			require.NoError(t, sink.Write(t.Context(), result))

			require.Len(t, uploader.uploads, 1)
			upload := uploader.uploads[0]
			assert.Equal(t, "my-bucket", upload.bucket)
			assert.Equal(t, tt.wantKey, upload.key)
			assert.Equal(t, "report", upload.body)
			assert.Equal(t, "text/plain; charset=utf-8", upload.contentType)
			assert.Equal(t, map[string]string{
				MetadataInspectionID:   tt.id,
				MetadataInspectionKind: "data_types",
				"dataset-rows":         "20640",
				"dataset-columns":      "10",
			}, upload.metadata)
		})
	}
}

func TestS3Sink_WriteBundle(t *testing.T) {
	tests := []struct {
		name            string
		bundle          string
		wantContentType string
	}{
		{name: "gzip", bundle: "housing.tar.gz", wantContentType: "application/gzip"},
		{name: "zstd", bundle: "housing.tar.zst", wantContentType: "application/zstd"},
		{name: "uncompressed", bundle: "housing.tar", wantContentType: "application/x-tar"},
		{name: "unknown", bundle: "housing.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &mockUploader{}
			sink := NewS3SinkWithUploader("my-bucket", "bundles", uploader)

			require.NoError(t, sink.WriteBundle(t.Context(), tt.bundle, bytes.NewBufferString("bundle")))

			require.Len(t, uploader.uploads, 1)
			assert.Equal(t, "bundles/"+tt.bundle, uploader.uploads[0].key)
			assert.Equal(t, "bundle", uploader.uploads[0].body)
			assert.Equal(t, tt.wantContentType, uploader.uploads[0].contentType)
			assert.Empty(t, uploader.uploads[0].metadata)
		})
	}
}

func TestS3Sink_WriteError(t *testing.T) {
	boom := errors.New("access denied")
	sink := NewS3SinkWithUploader("my-bucket", "reports", &mockUploader{err: boom})

	err := sink.Write(t.Context(), engine.Result{ID: "types", Report: []byte("report")})
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "s3://my-bucket/reports/types.txt")
}
