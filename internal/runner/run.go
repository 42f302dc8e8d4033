package runner

import (
	"context"
	"fmt"

	v1 "github.com/infracollect/dataprobe/apis/v1"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/ingestors"
	"github.com/infracollect/dataprobe/internal/sources"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Runner struct {
	logger   *zap.Logger
	job      v1.InspectJob
	registry *engine.Registry
	source   sources.Source
	pipeline *engine.Pipeline
	sink     engine.Sink
}

type Option func(*options)

type options struct {
	fs     afero.Fs
	source sources.Source
	sink   engine.Sink
}

// WithFs sets the filesystem archives are downloaded to and extracted on.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithSource overrides the source described by the job.
func WithSource(source sources.Source) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithSink overrides the sink described by the job output.
func WithSink(sink engine.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

func New(ctx context.Context, logger *zap.Logger, job v1.InspectJob, opts ...Option) (*Runner, error) {
	logger.Info("creating runner", zap.String("job_name", job.Metadata.Name))

	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := buildRegistry(logger.Named("registry"), job.Spec.Ingest, o.fs)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	pipeline, err := createPipeline(logger.Named("pipeline"), registry, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	source := o.source
	if source == nil {
		source, err = sources.FromSpec(ctx, job.Spec.Source,
			sources.WithFs(o.fs),
			sources.WithLogger(logger.Named("source")),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build source: %w", err)
		}
	}

	sink := o.sink
	if sink == nil {
		sink, err = buildSink(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("failed to build sink: %w", err)
		}
	}

	return &Runner{
		logger:   logger,
		job:      job,
		registry: registry,
		source:   source,
		pipeline: pipeline,
		sink:     sink,
	}, nil
}

func (r *Runner) Run(ctx context.Context) error {
	path, err := r.source.Fetch(ctx)
	defer func() {
		// Use a background context so downloads are removed even if ctx was cancelled
		if err := r.source.Close(context.Background()); err != nil {
			r.logger.Error("failed to close source", zap.String("source", r.source.Name()), zap.Error(err))
		}
	}()
	if err != nil {
		return fmt.Errorf("failed to fetch archive from %s: %w", r.source.Name(), err)
	}

	ingestor, err := ingestors.ForPath(r.registry, path)
	if err != nil {
		return err
	}

	df, err := ingestor.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", path, err)
	}

	r.logger.Info("ingested dataset",
		zap.String("ingestor", ingestor.Name()),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()),
	)

	results, err := r.pipeline.Run(ctx, df)
	if err != nil {
		return fmt.Errorf("failed to run pipeline: %w", err)
	}

	if err := r.WriteResults(ctx, results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}

// WriteResults hands every result to the sink, then closes it.
func (r *Runner) WriteResults(ctx context.Context, results []engine.Result) error {
	for _, result := range results {
		if err := r.sink.Write(ctx, result); err != nil {
			return fmt.Errorf("failed to write result for inspection %s: %w", result.ID, err)
		}
		r.logger.Debug("wrote report", zap.String("inspection_id", result.ID), zap.String("sink", r.sink.Name()))
	}

	if err := r.sink.Close(ctx); err != nil {
		return fmt.Errorf("failed to close sink: %w", err)
	}

	return nil
}

func (r *Runner) Pipeline() *engine.Pipeline {
	return r.pipeline
}
