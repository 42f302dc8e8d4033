package zip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// extract writes every entry of the archive at path below dir and returns the
// number of entries written. Entries cannot escape dir.
func (i *Ingestor) extract(ctx context.Context, path, dir string) (int, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat archive %s: %w", path, err)
	}

	reader, err := zip.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("failed to read archive %s: %w", path, err)
	}

	target := afero.NewBasePathFs(i.fs, dir)
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("context cancelled while extracting %s: %w", path, err)
		}

		if err := extractEntry(target, entry); err != nil {
			return 0, fmt.Errorf("failed to extract %s from %s: %w", entry.Name, path, err)
		}
	}

	return len(reader.File), nil
}

func extractEntry(fs afero.Fs, entry *zip.File) (err error) {
	if entry.FileInfo().IsDir() {
		return fs.MkdirAll(entry.Name, 0755)
	}

	if dir := filepath.Dir(entry.Name); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := fs.OpenFile(entry.Name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	_, err = io.Copy(out, rc)
	return err
}

// findCSV returns the path of the only CSV file directly inside dir.
func (i *Ingestor) findCSV(dir string) (string, error) {
	entries, err := afero.ReadDir(i.fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	csvFiles := lo.FilterMap(entries, func(entry os.FileInfo, _ int) (string, bool) {
		return entry.Name(), !entry.IsDir() && strings.HasSuffix(entry.Name(), CSVExtension)
	})

	switch len(csvFiles) {
	case 0:
		return "", fmt.Errorf("%w: no %s file in %s", engine.ErrNotFound, CSVExtension, dir)
	case 1:
		return filepath.Join(dir, csvFiles[0]), nil
	default:
		return "", fmt.Errorf("%w: %d %s files in %s: %s",
			engine.ErrAmbiguousInput, len(csvFiles), CSVExtension, dir, strings.Join(csvFiles, ", "))
	}
}

func (i *Ingestor) readCSV(path string) (dataframe.DataFrame, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, i.cfg.CSV.loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}

	return df, nil
}

func (o CSVOptions) loadOptions() []dataframe.LoadOption {
	delimiter := o.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	nanValues := o.NaNValues
	if len(nanValues) == 0 {
		nanValues = defaultNaNValues
	}

	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(delimiter),
		dataframe.WithLazyQuotes(o.LazyQuotes),
		dataframe.NaNValues(nanValues),
	}
}
