package main

import (
	"context"
	"fmt"

	"github.com/infracollect/dataprobe/internal/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run an inspection job",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "allowed-env",
				Usage: "Environment variables allowed in job configuration (can be repeated)",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "job",
				UsageText: "The job file to run, or - for stdin",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := getLogger(ctx)

			jobFilename := command.StringArg("job")
			if jobFilename == "" {
				return fmt.Errorf("no job file provided")
			}

			jobFile, name, err := readJobFile(ctx, jobFilename)
			if err != nil {
				return fmt.Errorf("failed to read job file '%s': %w", jobFilename, err)
			}

			job, err := runner.ParseInspectJob(jobFile)
			if err != nil {
				return fmt.Errorf("failed to parse job '%s': %w", name, formatValidationError(err))
			}

			variables, err := runner.BuildVariables(job, command.StringSlice("allowed-env"))
			if err != nil {
				return fmt.Errorf("failed to build variables: %w", err)
			}

			if err := runner.ExpandTemplates(&job, variables); err != nil {
				return fmt.Errorf("failed to expand templates: %w", err)
			}

			r, err := runner.New(ctx, logger.Named("runner"), job)
			if err != nil {
				return fmt.Errorf("failed to create runner: %w", err)
			}

			if err := r.Run(ctx); err != nil {
				return fmt.Errorf("failed to run job: %w", err)
			}

			logger.Info("job completed", zap.String("job_name", job.Metadata.Name), zap.Int("inspections", len(r.Pipeline().Inspections())))
			return nil
		},
	}
}
