package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	v1 "github.com/infracollect/dataprobe/apis/v1"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/engine/archivers"
	"github.com/infracollect/dataprobe/internal/engine/sinks"
	"github.com/infracollect/dataprobe/internal/ingestors"
	"github.com/infracollect/dataprobe/internal/ingestors/zip"
	"github.com/infracollect/dataprobe/internal/inspect"
	"github.com/infracollect/dataprobe/internal/s3client"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// buildRegistry registers the built-in ingestors, configured from the ingest
// spec, and the built-in inspection strategies.
func buildRegistry(logger *zap.Logger, spec *v1.IngestSpec, fs afero.Fs) (*engine.Registry, error) {
	cfg, err := buildZipConfig(spec)
	if err != nil {
		return nil, err
	}

	registry := engine.NewRegistry(logger)
	ingestors.Register(registry, cfg, zip.WithFs(fs))
	inspect.Register(registry)

	return registry, nil
}

func buildZipConfig(spec *v1.IngestSpec) (zip.Config, error) {
	var cfg zip.Config
	if spec == nil {
		return cfg, nil
	}

	if spec.WorkDir != nil {
		cfg.WorkDir = *spec.WorkDir
	}
	cfg.KeepExtracted = spec.KeepExtracted

	if spec.CSV != nil {
		if spec.CSV.Delimiter != "" {
			r, size := utf8.DecodeRuneInString(spec.CSV.Delimiter)
			if size != len(spec.CSV.Delimiter) {
				return zip.Config{}, fmt.Errorf("csv delimiter must be a single character, got %q", spec.CSV.Delimiter)
			}
			cfg.CSV.Delimiter = r
		}
		cfg.CSV.LazyQuotes = spec.CSV.LazyQuotes
		cfg.CSV.NaNValues = spec.CSV.NaNValues
	}

	return cfg, nil
}

// createPipeline resolves every inspection of the job against the registry.
// A job without inspections runs the default strategies, each under its kind as ID.
func createPipeline(logger *zap.Logger, registry *engine.Registry, job v1.InspectJob) (*engine.Pipeline, error) {
	logger.Info("creating pipeline", zap.String("job_name", job.Metadata.Name))
	pipeline := engine.NewPipeline(job.Metadata.Name)

	inspections := job.Spec.Inspections
	if len(inspections) == 0 {
		for _, kind := range inspect.DefaultKinds() {
			inspections = append(inspections, v1.Inspection{ID: kind, Kind: kind})
		}
	}

	for _, spec := range inspections {
		strategy, err := registry.CreateStrategy(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("inspection %s: %w", spec.ID, err)
		}

		if err := pipeline.AddInspection(spec.ID, strategy); err != nil {
			return nil, err
		}

		logger.Info("added inspection", zap.String("inspection_id", spec.ID), zap.String("kind", spec.Kind))
	}

	return pipeline, nil
}

// buildSink creates a sink from the job spec.
//
// Default behavior:
//   - No output spec: stdout sink
//   - No sink specified: stdout sink
//   - Explicit stdout sink: stdout sink
//   - Explicit filesystem sink: filesystem sink
//   - Explicit s3 sink: s3 sink
//
// If archive is configured, the filesystem or s3 sink receives a single
// bundle through an ArchiveSink.
func buildSink(ctx context.Context, job v1.InspectJob) (engine.Sink, error) {
	output := job.Spec.Output
	if output == nil || output.Sink == nil || output.Sink.Stdout != nil {
		if output != nil && output.Archive != nil {
			return nil, fmt.Errorf("stdout sink cannot be used with archive configuration")
		}
		return sinks.NewStreamSink(os.Stdout), nil
	}

	sink, err := buildStorageSink(ctx, output.Sink)
	if err != nil {
		return nil, err
	}

	if output.Archive != nil {
		return wrapWithArchiveSink(job, sink)
	}

	return sink, nil
}

func buildStorageSink(ctx context.Context, spec *v1.SinkSpec) (engine.BundleSink, error) {
	switch {
	case spec.Filesystem != nil:
		return buildFilesystemSink(spec.Filesystem)
	case spec.S3 != nil:
		return buildS3Sink(ctx, spec.S3)
	default:
		return nil, fmt.Errorf("invalid sink configuration: no sink type specified")
	}
}

func wrapWithArchiveSink(job v1.InspectJob, inner engine.BundleSink) (engine.Sink, error) {
	archive := job.Spec.Output.Archive

	archiver, err := archivers.NewTarArchiver(archive.Compression)
	if err != nil {
		return nil, fmt.Errorf("failed to create tar archiver: %w", err)
	}

	name := archive.Name
	if name == "" {
		name = job.Metadata.Name
	}

	return sinks.NewArchiveSink(inner, archiver, name), nil
}

func buildFilesystemSink(spec *v1.FilesystemSinkSpec) (engine.BundleSink, error) {
	var dir, prefix string
	if spec.Path != nil {
		dir = *spec.Path
	}
	if spec.Prefix != nil {
		prefix = *spec.Prefix
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	sink, err := sinks.NewFilesystemSinkFromPath(filepath.Join(dir, prefix))
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func buildS3Sink(ctx context.Context, spec *v1.S3SinkSpec) (engine.BundleSink, error) {
	cfg := sinks.S3Config{
		Config: s3client.Config{ForcePathStyle: spec.ForcePathStyle},
		Bucket: spec.Bucket,
	}

	if spec.Region != nil {
		cfg.Region = *spec.Region
	}
	if spec.Endpoint != nil {
		cfg.Endpoint = *spec.Endpoint
	}
	if spec.Prefix != nil {
		cfg.Prefix = *spec.Prefix
	}
	if spec.Credentials != nil {
		cfg.AccessKeyID = spec.Credentials.AccessKeyID
		cfg.SecretAccessKey = spec.Credentials.SecretAccessKey
	}

	sink, err := sinks.NewS3Sink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

// BuildVariables creates the variables map for template expansion: the
// built-in job variables plus every allowed environment variable. Unset
// allowed variables are reported together.
func BuildVariables(job v1.InspectJob, allowedEnv []string) (map[string]string, error) {
	date := time.Now().UTC()
	variables := map[string]string{
		"JOB_NAME":         job.Metadata.Name,
		"JOB_DATE_ISO8601": date.Format(engine.ISO8601Basic),
		"JOB_DATE_RFC3339": date.Format(time.RFC3339),
	}

	var errs error
	for _, envName := range allowedEnv {
		val, ok := os.LookupEnv(envName)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("environment variable %q is not set", envName))
			continue
		}
		variables[envName] = val
	}

	if errs != nil {
		return nil, errs
	}

	return variables, nil
}
