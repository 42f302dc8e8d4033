package archivers

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/samber/lo"
)

// ManifestName is the archive member that lists every bundled report.
const ManifestName = "manifest.yaml"

// PAX records set on each report member.
const (
	PAXInspectionID   = "DATAPROBE.id"
	PAXInspectionKind = "DATAPROBE.kind"
)

type Compression string

const (
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionNone Compression = "none"
)

// Manifest describes the content of a report bundle.
type Manifest struct {
	CreatedAt string          `yaml:"created_at"`
	Reports   []ManifestEntry `yaml:"reports"`
}

type ManifestEntry struct {
	ID   string            `yaml:"id"`
	Kind string            `yaml:"kind"`
	File string            `yaml:"file"`
	Size int               `yaml:"size"`
	Meta map[string]string `yaml:"meta,omitempty"`
}

// TarArchiver bundles inspection reports into a tar archive, one `<id>.txt`
// member per inspection followed by a manifest.
type TarArchiver struct {
	buf         *bytes.Buffer
	compressor  io.WriteCloser
	tw          *tar.Writer
	compression Compression
	modTime     time.Time
	manifest    Manifest
	closed      bool
}

var _ engine.Archiver = (*TarArchiver)(nil)

// NewTarArchiver returns an archiver compressing with gzip (the default when
// compression is empty), zstd or none.
func NewTarArchiver(compression string) (*TarArchiver, error) {
	c := Compression(compression)
	if c == "" {
		c = CompressionGzip
	}

	buf := new(bytes.Buffer)
	compressor, err := newCompressor(c, buf)
	if err != nil {
		return nil, err
	}

	modTime := time.Now().UTC().Truncate(time.Second)
	return &TarArchiver{
		buf:         buf,
		compressor:  compressor,
		tw:          tar.NewWriter(compressor),
		compression: c,
		modTime:     modTime,
		manifest:    Manifest{CreatedAt: modTime.Format(time.RFC3339)},
	}, nil
}

func newCompressor(c Compression, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return enc, nil
	case CompressionNone:
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", c)
	}
}

func (a *TarArchiver) Add(ctx context.Context, result engine.Result) error {
	if a.closed {
		return fmt.Errorf("archiver is closed")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	if lo.ContainsBy(a.manifest.Reports, func(e ManifestEntry) bool { return e.ID == result.ID }) {
		return fmt.Errorf("inspection %s already added to archive", result.ID)
	}

	file := result.Filename()
	pax := map[string]string{
		PAXInspectionID:   result.ID,
		PAXInspectionKind: result.Kind,
	}
	if err := a.writeMember(file, result.Report, pax); err != nil {
		return err
	}

	a.manifest.Reports = append(a.manifest.Reports, ManifestEntry{
		ID:   result.ID,
		Kind: result.Kind,
		File: file,
		Size: len(result.Report),
		Meta: result.Meta,
	})
	return nil
}

func (a *TarArchiver) writeMember(name string, content []byte, pax map[string]string) error {
	header := &tar.Header{
		Typeflag:   tar.TypeReg,
		Name:       name,
		Mode:       0o644,
		Size:       int64(len(content)),
		ModTime:    a.modTime,
		PAXRecords: pax,
	}

	if err := a.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}
	if _, err := a.tw.Write(content); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}

// Close writes the manifest and returns the complete compressed archive.
func (a *TarArchiver) Close() (io.Reader, error) {
	if a.closed {
		return nil, fmt.Errorf("archiver already closed")
	}
	a.closed = true

	manifest, err := yaml.Marshal(a.manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := a.writeMember(ManifestName, manifest, nil); err != nil {
		return nil, err
	}

	if err := a.tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close tar writer: %w", err)
	}
	if err := a.compressor.Close(); err != nil {
		return nil, fmt.Errorf("failed to close compressor: %w", err)
	}

	return bytes.NewReader(a.buf.Bytes()), nil
}

func (a *TarArchiver) Extension() string {
	switch a.compression {
	case CompressionGzip:
		return ".tar.gz"
	case CompressionZstd:
		return ".tar.zst"
	default:
		return ".tar"
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
