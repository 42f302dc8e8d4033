package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/s3client"
)

// Object metadata set on every uploaded report. Result meta entries are added
// under the "dataset-" prefix.
const (
	MetadataInspectionID   = "inspection-id"
	MetadataInspectionKind = "inspection-kind"
	metadataDatasetPrefix  = "dataset-"
)

// S3Uploader is the part of manager.Uploader the sink uses.
type S3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Config struct {
	s3client.Config
	Bucket string
	Prefix string
}

// S3Sink uploads each report to `<prefix>/<id>.txt` in a bucket.
type S3Sink struct {
	bucket   string
	prefix   string
	uploader S3Uploader
}

var _ engine.BundleSink = (*S3Sink)(nil)

func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	client, err := s3client.New(ctx, cfg.Config)
	if err != nil {
		return nil, err
	}

	return NewS3SinkWithUploader(cfg.Bucket, cfg.Prefix, manager.NewUploader(client)), nil
}

func NewS3SinkWithUploader(bucket, prefix string, uploader S3Uploader) *S3Sink {
	return &S3Sink{bucket: bucket, prefix: prefix, uploader: uploader}
}

func (s *S3Sink) Name() string {
	return fmt.Sprintf("s3(%s)", path.Join(s.bucket, s.prefix))
}

func (s *S3Sink) Kind() string { return "s3" }

func (s *S3Sink) Write(ctx context.Context, result engine.Result) error {
	metadata := map[string]string{
		MetadataInspectionID:   result.ID,
		MetadataInspectionKind: result.Kind,
	}
	for k, v := range result.Meta {
		metadata[metadataDatasetPrefix+k] = v
	}

	return s.upload(ctx, &s3.PutObjectInput{
		Key:         aws.String(s.key(result.Filename())),
		Body:        bytes.NewReader(result.Report),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata:    metadata,
	})
}

func (s *S3Sink) WriteBundle(ctx context.Context, name string, data io.Reader) error {
	input := &s3.PutObjectInput{
		Key:  aws.String(s.key(name)),
		Body: data,
	}
	if contentType := bundleContentType(name); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	return s.upload(ctx, input)
}

func (s *S3Sink) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) upload(ctx context.Context, input *s3.PutObjectInput) error {
	input.Bucket = aws.String(s.bucket)
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", s.bucket, aws.ToString(input.Key), err)
	}
	return nil
}

func bundleContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".tar.gz"):
		return "application/gzip"
	case strings.HasSuffix(name, ".tar.zst"):
		return "application/zstd"
	case strings.HasSuffix(name, ".tar"):
		return "application/x-tar"
	default:
		return ""
	}
}

func (s *S3Sink) Close(context.Context) error { return nil }
