// Package zip loads a tabular dataset from a zip archive holding exactly one CSV file.
package zip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	IngestorKind = "zip"
	Extension    = ".zip"
	CSVExtension = ".csv"

	// DefaultWorkDir is the shared extraction directory used by callers that
	// want archives extracted next to the working directory. It is never
	// cleaned and repeated extractions overwrite its contents.
	DefaultWorkDir = "extracted_data"

	tempDirPrefix = "dataprobe-extract-"
)

var defaultNaNValues = []string{"", "NA", "NaN", "N/A", "null"}

// CSVOptions tunes how the extracted CSV file is parsed. The zero value means
// comma-delimited, strict quoting and the default missing-value markers.
type CSVOptions struct {
	Delimiter  rune
	LazyQuotes bool
	NaNValues  []string
}

type Config struct {
	// WorkDir is the extraction directory. When empty, every call extracts
	// into its own temporary directory.
	WorkDir string

	// KeepExtracted leaves temporary extraction directories on disk.
	// Ignored when WorkDir is set: an explicit WorkDir is never removed.
	KeepExtracted bool

	CSV CSVOptions
}

type Ingestor struct {
	fs     afero.Fs
	logger *zap.Logger
	cfg    Config
}

type Option func(*Ingestor)

func WithFs(fs afero.Fs) Option {
	return func(i *Ingestor) {
		i.fs = fs
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(i *Ingestor) {
		i.logger = logger
	}
}

// New creates a zip ingestor. It performs no I/O.
func New(cfg Config, opts ...Option) *Ingestor {
	ingestor := &Ingestor{cfg: cfg}
	for _, opt := range opts {
		opt(ingestor)
	}

	if ingestor.fs == nil {
		ingestor.fs = afero.NewOsFs()
	}
	if ingestor.logger == nil {
		ingestor.logger = zap.NewNop()
	}

	return ingestor
}

func (i *Ingestor) Name() string {
	if i.cfg.WorkDir != "" {
		return fmt.Sprintf("%s(%s)", IngestorKind, i.cfg.WorkDir)
	}
	return IngestorKind
}

func (i *Ingestor) Kind() string {
	return IngestorKind
}

func (i *Ingestor) Extension() string {
	return Extension
}

// Ingest extracts the archive at path and parses the single top-level CSV
// file it contains.
func (i *Ingestor) Ingest(ctx context.Context, path string) (df dataframe.DataFrame, err error) {
	if !strings.HasSuffix(path, Extension) {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q is not a %s archive", engine.ErrInvalidFormat, path, Extension)
	}

	workDir, cleanup, err := i.prepareWorkDir()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer func() {
		err = errors.Join(err, cleanup())
	}()

	extracted, err := i.extract(ctx, path, workDir)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	csvPath, err := i.findCSV(workDir)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err = i.readCSV(csvPath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	i.logger.Debug("ingested archive",
		zap.String("archive", path),
		zap.String("work_dir", workDir),
		zap.Int("extracted_entries", extracted),
		zap.String("csv", csvPath),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()),
	)

	return df, nil
}

// prepareWorkDir returns the extraction directory and a cleanup function that
// must run once the dataset has been parsed.
func (i *Ingestor) prepareWorkDir() (string, func() error, error) {
	noop := func() error { return nil }

	if i.cfg.WorkDir != "" {
		if err := i.fs.MkdirAll(i.cfg.WorkDir, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create work directory %s: %w", i.cfg.WorkDir, err)
		}
		return i.cfg.WorkDir, noop, nil
	}

	dir, err := afero.TempDir(i.fs, "", tempDirPrefix)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	if i.cfg.KeepExtracted {
		return dir, noop, nil
	}

	return dir, func() error {
		if err := i.fs.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove extraction directory %s: %w", dir, err)
		}
		return nil
	}, nil
}
