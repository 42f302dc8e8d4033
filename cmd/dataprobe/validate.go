package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/infracollect/dataprobe/internal/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a job file",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "allowed-env",
				Usage: "Environment variables allowed in job configuration (can be repeated)",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "job",
				UsageText: "The job file to validate, or - for stdin",
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

			logger = logger.With(zap.String("job_filename", name))
			logger.Debug("validating job file")

			job, err := runner.ParseInspectJob(jobFile)
			if err != nil {
				fmt.Fprintln(command.Root().Writer, formatValidationError(err))
				return fmt.Errorf("job file '%s' is invalid", name)
			}

			variables, err := runner.BuildVariables(job, command.StringSlice("allowed-env"))
			if err != nil {
				return fmt.Errorf("failed to build variables: %w", err)
			}

			if err := runner.ExpandTemplates(&job, variables); err != nil {
				return fmt.Errorf("failed to expand templates: %w", err)
			}

			if isInteractive(ctx) {
				fmt.Fprintf(command.Root().Writer, "✓ Job file '%s' is valid\n", name)
			} else {
				logger.Info("job file is valid", zap.String("job_name", job.Metadata.Name))
			}
			return nil
		},
	}
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "job file has %d validation error(s):", len(validationErrs))
		for _, fe := range validationErrs {
			fmt.Fprintf(&sb, "\n  • %s: failed '%s' validation", fe.Namespace(), fe.Tag())
			if fe.Param() != "" {
				fmt.Fprintf(&sb, " (param: %s)", fe.Param())
			}
		}
		return errors.New(sb.String())
	}
	return err
}
