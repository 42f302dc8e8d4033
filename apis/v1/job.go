package v1

const InspectJobKind = "InspectJob"

type InspectJob struct {
	Kind     string         `yaml:"kind" json:"kind" validate:"required,eq=InspectJob"`
	Metadata Metadata       `yaml:"metadata" json:"metadata"`
	Spec     InspectJobSpec `yaml:"spec" json:"spec"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type InspectJobSpec struct {
	Source SourceSpec  `yaml:"source" json:"source"`
	Ingest *IngestSpec `yaml:"ingest,omitempty" json:"ingest,omitempty"`

	// Inspections run in order against the ingested dataset. When empty, the
	// data_types and summary_statistics inspections run.
	Inspections []Inspection `yaml:"inspections,omitempty" json:"inspections,omitempty" validate:"dive"`

	Output *OutputSpec `yaml:"output,omitempty" json:"output,omitempty"`
}

// SourceSpec locates the archive to inspect (one of the fields should be set).
type SourceSpec struct {
	// Path is a local archive path.
	Path *string         `yaml:"path,omitempty" json:"path,omitempty" template:""`
	S3   *S3SourceSpec   `yaml:"s3,omitempty" json:"s3,omitempty"`
	HTTP *HTTPSourceSpec `yaml:"http,omitempty" json:"http,omitempty"`
}

type S3SourceSpec struct {
	Bucket         string         `yaml:"bucket" json:"bucket" validate:"required" template:""`
	Key            string         `yaml:"key" json:"key" validate:"required" template:""`
	Region         *string        `yaml:"region,omitempty" json:"region,omitempty" template:""`
	Endpoint       *string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty" template:""`
	ForcePathStyle bool           `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
	Credentials    *S3Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

type HTTPSourceSpec struct {
	URL     string            `yaml:"url" json:"url" validate:"required,url" template:""`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty" template:""`
	// Timeout in seconds.
	Timeout  *int `yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"omitempty,gt=0"`
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`
}

type S3Credentials struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" validate:"required" template:""`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" validate:"required" template:""`
}

// IngestSpec configures archive extraction and CSV parsing.
type IngestSpec struct {
	// WorkDir extracts into a fixed directory that is never removed. By
	// default every ingestion extracts into its own temporary directory.
	WorkDir       *string  `yaml:"work_dir,omitempty" json:"work_dir,omitempty" template:""`
	KeepExtracted bool     `yaml:"keep_extracted,omitempty" json:"keep_extracted,omitempty"`
	CSV           *CSVSpec `yaml:"csv,omitempty" json:"csv,omitempty"`
}

type CSVSpec struct {
	Delimiter  string   `yaml:"delimiter,omitempty" json:"delimiter,omitempty" validate:"omitempty,len=1"`
	LazyQuotes bool     `yaml:"lazy_quotes,omitempty" json:"lazy_quotes,omitempty"`
	NaNValues  []string `yaml:"nan_values,omitempty" json:"nan_values,omitempty"`
}

type Inspection struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Kind string `yaml:"kind" json:"kind" validate:"required"`
}

// OutputSpec configures where reports are written.
type OutputSpec struct {
	// Sink configures the destination (default: stdout).
	Sink *SinkSpec `yaml:"sink,omitempty" json:"sink,omitempty"`

	// Archive bundles every report into one tar archive written to the sink.
	Archive *ArchiveSpec `yaml:"archive,omitempty" json:"archive,omitempty"`
}

// SinkSpec configures the report destination (one of the fields should be set).
type SinkSpec struct {
	Stdout     *StdoutSinkSpec     `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Filesystem *FilesystemSinkSpec `yaml:"filesystem,omitempty" json:"filesystem,omitempty"`
	S3         *S3SinkSpec         `yaml:"s3,omitempty" json:"s3,omitempty"`
}

type StdoutSinkSpec struct{}

type FilesystemSinkSpec struct {
	// Path defaults to the current working directory.
	Path   *string `yaml:"path,omitempty" json:"path,omitempty" template:""`
	Prefix *string `yaml:"prefix,omitempty" json:"prefix,omitempty" template:""`
}

type S3SinkSpec struct {
	Bucket         string         `yaml:"bucket" json:"bucket" validate:"required" template:""`
	Prefix         *string        `yaml:"prefix,omitempty" json:"prefix,omitempty" template:""`
	Region         *string        `yaml:"region,omitempty" json:"region,omitempty" template:""`
	Endpoint       *string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty" template:""`
	ForcePathStyle bool           `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
	Credentials    *S3Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

type ArchiveSpec struct {
	// Name defaults to the job name.
	Name        string `yaml:"name,omitempty" json:"name,omitempty" template:""`
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" validate:"omitempty,oneof=gzip zstd none"`
}
