// Package sources fetches the archive an inspection job works on and hands
// back a local path for the ingestor.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	v1 "github.com/infracollect/dataprobe/apis/v1"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/s3client"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const tempDirPrefix = "dataprobe-source-"

// Source resolves an archive to a local file path. Close releases whatever
// Fetch downloaded.
type Source interface {
	engine.Named
	engine.Closer
	Fetch(ctx context.Context) (string, error)
}

type Option func(*options)

type options struct {
	fs         afero.Fs
	logger     *zap.Logger
	httpClient *http.Client
}

// WithFs sets the filesystem downloads are written to. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the pooled cleanhttp client of HTTP sources.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func newOptions(opts []Option) options {
	o := options{
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromSpec builds the source described by spec. Remote sources are only
// configured here; nothing is downloaded before Fetch.
func FromSpec(ctx context.Context, spec v1.SourceSpec, opts ...Option) (Source, error) {
	switch {
	case spec.Path != nil:
		return NewFileSource(*spec.Path), nil
	case spec.S3 != nil:
		cfg := S3Config{
			Config: s3client.Config{ForcePathStyle: spec.S3.ForcePathStyle},
			Bucket: spec.S3.Bucket,
			Key:    spec.S3.Key,
		}
		if spec.S3.Region != nil {
			cfg.Region = *spec.S3.Region
		}
		if spec.S3.Endpoint != nil {
			cfg.Endpoint = *spec.S3.Endpoint
		}
		if spec.S3.Credentials != nil {
			cfg.AccessKeyID = spec.S3.Credentials.AccessKeyID
			cfg.SecretAccessKey = spec.S3.Credentials.SecretAccessKey
		}
		return NewS3Source(ctx, cfg, opts...)
	case spec.HTTP != nil:
		cfg := HTTPConfig{
			URL:      spec.HTTP.URL,
			Headers:  spec.HTTP.Headers,
			Insecure: spec.HTTP.Insecure,
		}
		if spec.HTTP.Timeout != nil {
			cfg.Timeout = time.Duration(*spec.HTTP.Timeout) * time.Second
		}
		return NewHTTPSource(cfg, opts...)
	default:
		return nil, fmt.Errorf("source has no type specified")
	}
}

// download creates a fresh temporary directory on fs. target is the path,
// inside that directory, of a file named after the last element of remote.
func download(fs afero.Fs, remote string) (dir, target string, err error) {
	name := path.Base(remote)
	if name == "." || name == "/" {
		return "", "", fmt.Errorf("cannot derive a file name from %q", remote)
	}

	dir, err = afero.TempDir(fs, "", tempDirPrefix)
	if err != nil {
		return "", "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, path.Join(dir, name), nil
}
