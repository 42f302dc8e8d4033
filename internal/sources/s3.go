package sources

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/infracollect/dataprobe/internal/s3client"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const S3SourceKind = "s3"

// S3Downloader is implemented by manager.Downloader.
type S3Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, opts ...func(*manager.Downloader)) (int64, error)
}

type S3Config struct {
	s3client.Config
	Bucket string
	Key    string
}

// S3Source downloads an archive object into a temporary directory, keeping
// the key's base name so the extension still selects the ingestor.
type S3Source struct {
	bucket     string
	key        string
	downloader S3Downloader
	fs         afero.Fs
	logger     *zap.Logger
	dir        string
}

func NewS3Source(ctx context.Context, cfg S3Config, opts ...Option) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 source requires a bucket and a key")
	}

	client, err := s3client.New(ctx, cfg.Config)
	if err != nil {
		return nil, err
	}

	return NewS3SourceWithDownloader(cfg.Bucket, cfg.Key, manager.NewDownloader(client), opts...), nil
}

func NewS3SourceWithDownloader(bucket, key string, downloader S3Downloader, opts ...Option) *S3Source {
	o := newOptions(opts)
	return &S3Source{
		bucket:     bucket,
		key:        key,
		downloader: downloader,
		fs:         o.fs,
		logger:     o.logger,
	}
}

func (s *S3Source) Name() string {
	return fmt.Sprintf("%s(%s/%s)", S3SourceKind, s.bucket, s.key)
}

func (s *S3Source) Kind() string {
	return S3SourceKind
}

func (s *S3Source) Fetch(ctx context.Context) (string, error) {
	dir, target, err := download(s.fs, s.key)
	if err != nil {
		return "", err
	}
	s.dir = dir

	f, err := s.fs.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	n, err := s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if closeErr := f.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return "", fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, s.key, err)
	}

	s.logger.Debug("downloaded archive",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key),
		zap.Int64("bytes", n),
	)

	return target, nil
}

func (s *S3Source) Close(ctx context.Context) error {
	if s.dir == "" {
		return nil
	}

	dir := s.dir
	s.dir = ""
	return s.fs.RemoveAll(dir)
}
