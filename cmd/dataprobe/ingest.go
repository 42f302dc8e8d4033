package main

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/infracollect/dataprobe/internal/engine"
	"github.com/infracollect/dataprobe/internal/ingestors"
	"github.com/infracollect/dataprobe/internal/ingestors/zip"
	"github.com/infracollect/dataprobe/internal/inspect"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const defaultPreviewRows = 5

func ingestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "work-dir",
			Usage: fmt.Sprintf("Extract into this directory and keep it (e.g. %s). Defaults to a temporary directory per run", zip.DefaultWorkDir),
		},
		&cli.BoolFlag{
			Name:  "keep-extracted",
			Usage: "Do not remove the temporary extraction directory",
		},
		&cli.StringFlag{
			Name:  "delimiter",
			Value: ",",
			Usage: "CSV field delimiter",
			Action: func(ctx context.Context, command *cli.Command, s string) error {
				if utf8.RuneCountInString(s) != 1 {
					return fmt.Errorf("delimiter must be a single character, got %q", s)
				}
				return nil
			},
		},
		&cli.BoolFlag{
			Name:  "lazy-quotes",
			Usage: "Accept quotes appearing in unquoted fields",
		},
		&cli.StringSliceFlag{
			Name:  "nan-value",
			Usage: "Value read as missing (can be repeated, replaces the defaults)",
		},
	}
}

func zipConfigFromFlags(command *cli.Command) zip.Config {
	delimiter, _ := utf8.DecodeRuneInString(command.String("delimiter"))

	return zip.Config{
		WorkDir:       command.String("work-dir"),
		KeepExtracted: command.Bool("keep-extracted"),
		CSV: zip.CSVOptions{
			Delimiter:  delimiter,
			LazyQuotes: command.Bool("lazy-quotes"),
			NaNValues:  command.StringSlice("nan-value"),
		},
	}
}

// ingestArchive loads the dataset from the archive named by the command's
// "archive" argument.
func ingestArchive(ctx context.Context, command *cli.Command, registry *engine.Registry) (dataframe.DataFrame, error) {
	logger := getLogger(ctx)

	archive := command.StringArg("archive")
	if archive == "" {
		return dataframe.DataFrame{}, fmt.Errorf("no archive provided")
	}

	ingestors.Register(registry, zipConfigFromFlags(command))

	ingestor, err := ingestors.ForPath(registry, archive)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := ingestor.Ingest(ctx, archive)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to ingest '%s': %w", archive, err)
	}

	logger.Info("ingested dataset",
		zap.String("archive", archive),
		zap.String("ingestor", ingestor.Name()),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()),
	)

	return df, nil
}

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Load the CSV dataset of an archive and preview it",
		Flags: append(ingestFlags(), &cli.IntFlag{
			Name:  "rows",
			Value: defaultPreviewRows,
			Usage: "Number of rows to preview",
		}),
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "archive",
				UsageText: "The zip archive holding one CSV file",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			registry := engine.NewRegistry(getLogger(ctx).Named("registry"))

			df, err := ingestArchive(ctx, command, registry)
			if err != nil {
				return err
			}

			w := command.Root().Writer
			fmt.Fprintf(w, "Loaded dataset: %d rows, %d columns\n", df.Nrow(), df.Ncol())

			rows := min(max(int(command.Int("rows")), 0), df.Nrow())
			if rows > 0 {
				return inspect.WriteTable(w, df.Subset(lo.Range(rows)))
			}

			return nil
		},
	}
}
